package domain

import "time"

// Budget é um snapshot imutável da árvore de alocação de um grupo de campanhas.
// Nunca é alterado depois de gravado; cada edição ou reconciliação gera um novo registro.
type Budget struct {
	ID              int64               `json:"id"`
	CampaignGroupID int64               `json:"campaign_group_id"`
	ClientID        string              `json:"client_id"`
	Periods         []Period            `json:"periods"`
	Allocations     AllocationsByPeriod `json:"allocations"`
	Campaigns       ChannelCampaigns    `json:"campaigns"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// SaveBudgetRequest é o corpo enviado pelo operador ao editar a árvore
type SaveBudgetRequest struct {
	Periods     []Period            `json:"periods" validate:"required,min=1,dive"`
	Allocations AllocationsByPeriod `json:"allocations" validate:"required"`
}

// ChannelReport é a visão canal -> campanha -> período -> adsets usada em relatórios
type ChannelReport struct {
	Name      string           `json:"name"`
	Campaigns []CampaignReport `json:"campaigns"`
}

type CampaignReport struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	CampaignType string       `json:"campaignType"`
	TimePeriods  []TimePeriod `json:"timePeriods"`
}

type TimePeriod struct {
	ID         string       `json:"id"`
	Label      string       `json:"label"`
	Days       int          `json:"days"`
	Budget     Money        `json:"budget"`
	Percentage float64      `json:"percentage"`
	Adsets     []Allocation `json:"adsets"`
}
