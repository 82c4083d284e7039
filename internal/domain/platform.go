package domain

// PlatformCredentials são as credenciais usadas nas chamadas à API de anúncios
type PlatformCredentials struct {
	ClientID    string
	AccessToken string
}

type AdsetCreationRequest struct {
	Adset       AdsetSpec
	OrderID     string
	Type        string
	ProfileID   string
	Credentials PlatformCredentials
}

// AdsetCreationResponse segue o formato {data: [AdsetResult]} da plataforma
type AdsetCreationResponse struct {
	Data []AdsetResult `json:"data"`
}

type OrderCreationRequest struct {
	Campaign    Campaign
	ProfileID   string
	Credentials PlatformCredentials
}

type OrderCreationResponse struct {
	OrderID string `json:"orderId"`
}

// LaunchResult resume uma execução de orquestração
type LaunchResult struct {
	BatchID       string `json:"batchId"`
	OrdersCreated int    `json:"ordersCreated"`
	JobsEnqueued  int    `json:"jobsEnqueued"`
}
