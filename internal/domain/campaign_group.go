package domain

import "time"

// CampaignGroup é a iniciativa de um cliente com janela de veiculação e canais habilitados
type CampaignGroup struct {
	ID              int64     `json:"id"`
	ClientID        string    `json:"client_id"`
	Name            string    `json:"name"`
	FlightStart     time.Time `json:"flight_start"`
	FlightEnd       time.Time `json:"flight_end"`
	EnabledChannels []string  `json:"enabled_channels"`
	ProfileID       string    `json:"profile_id"`
	CreatedAt       time.Time `json:"created_at"`
}
