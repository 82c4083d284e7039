package domain

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// AdsetSpec é o adset a ser criado na plataforma
type AdsetSpec struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Budget    Money  `json:"budget"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// AdsetJobData é o payload de um job de criação de adset
type AdsetJobData struct {
	Adset           AdsetSpec `json:"adset"`
	OrderID         string    `json:"orderId"`
	Type            string    `json:"type"`
	ProfileID       string    `json:"profileId"`
	CampaignID      string    `json:"campaignId"`
	CampaignGroupID int64     `json:"campaignGroupId"`
	ClientID        string    `json:"clientId"`
}

// Job transita pending -> processing -> completed|failed e nunca volta
type Job struct {
	ID          int64        `json:"id"`
	Data        AdsetJobData `json:"data"`
	Status      JobStatus    `json:"status"`
	BatchID     string       `json:"batchId"`
	Error       *string      `json:"error,omitempty"`
	ProcessedAt *time.Time   `json:"processedAt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type CompletedJob struct {
	ID          int64      `json:"id"`
	ProcessedAt *time.Time `json:"processedAt"`
}

// BatchSummary conta os jobs de um lote por status
type BatchSummary struct {
	BatchID   string `json:"batchId"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
	Pending   int    `json:"pending"`
}
