package amazondomain

type Flight struct {
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
}

type OrderBudget struct {
	Amount float64 `json:"amount"`
}

type Optimization struct {
	Goal        string `json:"goal,omitempty"`
	BidStrategy string `json:"bidStrategy,omitempty"`
}

type FrequencyCap struct {
	Type           string `json:"type"`
	MaxImpressions int    `json:"maxImpressions"`
	TimeUnit       string `json:"timeUnit,omitempty"`
}

// OrderRequest é o corpo de criação de uma order DSP
type OrderRequest struct {
	Name          string         `json:"name"`
	ExternalID    string         `json:"externalId,omitempty"`
	Flight        Flight         `json:"flight"`
	Budget        OrderBudget    `json:"budget"`
	Optimization  Optimization   `json:"optimization"`
	FrequencyCaps []FrequencyCap `json:"frequencyCaps,omitempty"`
}

type OrderResponse struct {
	OrderID string `json:"orderId"`
}
