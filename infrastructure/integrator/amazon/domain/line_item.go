package amazondomain

type LineItemBudget struct {
	BudgetAmount float64 `json:"budgetAmount"`
}

// LineItemRequest é o corpo de criação de um line item, que é o adset do lado da Amazon
type LineItemRequest struct {
	OrderID       string         `json:"orderId"`
	Name          string         `json:"name"`
	ExternalID    string         `json:"externalId,omitempty"`
	LineItemType  string         `json:"lineItemType"`
	StartDateTime string         `json:"startDateTime"`
	EndDateTime   string         `json:"endDateTime"`
	Budget        LineItemBudget `json:"budget"`
}

// LineItemResponse é mantido como objeto opaco: o conteúdo vai inteiro para o snapshot
type LineItemResponse map[string]any
