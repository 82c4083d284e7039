package reconciling

import "errors"

var (
	// ErrNotFound indica grupo de campanhas ou orçamento ausente para o par (grupo, cliente)
	ErrNotFound = errors.New("campaign group not found for client")
	// ErrCampaignNotFound indica que o snapshot carregado não tem a campanha do job
	ErrCampaignNotFound = errors.New("campaign not found in latest budget snapshot")
	ErrEmptyAdsetResult = errors.New("platform returned no adset data")
)
