package allocating

import "github.com/vfg2006/campaign-manager-api/internal/domain"

// MergeAdsetResultIntoCampaign troca cada marcador pendente do job pelo resultado resolvido.
// Não altera a entrada: devolve novas listas de campanhas e de adsets.
func MergeAdsetResultIntoCampaign(campaigns []domain.Campaign, jobID int64, result domain.AdsetResult) []domain.Campaign {
	merged := make([]domain.Campaign, len(campaigns))

	for i, campaign := range campaigns {
		adsets := make([]domain.AdsetEntry, len(campaign.Adsets))
		for j, entry := range campaign.Adsets {
			if entry.IsPendingFor(jobID) {
				adsets[j] = domain.ResolvedAdset(result)
				continue
			}
			adsets[j] = entry
		}

		campaign.Adsets = adsets
		merged[i] = campaign
	}

	return merged
}

// HasPendingAdset indica se alguma campanha aguarda o resultado do job
func HasPendingAdset(campaigns []domain.Campaign, jobID int64) bool {
	for _, campaign := range campaigns {
		for _, entry := range campaign.Adsets {
			if entry.IsPendingFor(jobID) {
				return true
			}
		}
	}
	return false
}
