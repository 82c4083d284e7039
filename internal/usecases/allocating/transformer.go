package allocating

import (
	"fmt"
	"time"

	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/pkg/utils"
)

// CampaignID compõe a identidade natural da campanha. É a chave que junta a visão por
// período com a visão por canal e só é única dentro de um mesmo grupo de campanhas.
func CampaignID(channel, campaignType, campaignName string) string {
	return fmt.Sprintf("%s-%s-%s", channel, campaignType, campaignName)
}

// AdsetID compõe a identidade do adset a partir da campanha dona
func AdsetID(campaignID, adsetName string) string {
	return fmt.Sprintf("%s-%s", campaignID, adsetName)
}

type campaignAccumulator struct {
	channel  string
	cents    int64
	campaign domain.Campaign
}

// ToChannelGroupedCampaigns agrega as campanhas de todos os períodos e agrupa por canal e tipo.
//
// Campanhas com o mesmo id derivado têm os orçamentos somados entre períodos. Os períodos
// são percorridos na ordem de AllocationsByPeriod.PeriodIDs, e dentro de cada (canal, tipo)
// as campanhas ficam na ordem em que apareceram pela primeira vez.
func ToChannelGroupedCampaigns(
	allocations domain.AllocationsByPeriod,
	enabledChannels []string,
	flightStart, flightEnd time.Time,
) domain.ChannelCampaigns {
	result := domain.ChannelCampaigns{}
	if len(allocations) == 0 {
		return result
	}

	enabled := make(map[string]struct{}, len(enabledChannels))
	for _, ch := range enabledChannels {
		enabled[ch] = struct{}{}
	}

	accumulated := make(map[string]*campaignAccumulator)
	order := make([]string, 0)

	for _, periodID := range allocations.PeriodIDs() {
		for _, channel := range allocations[periodID].Allocations {
			if _, ok := enabled[channel.Name]; !ok {
				continue
			}

			for _, campaignType := range channel.Allocations {
				for _, node := range campaignType.Allocations {
					id := CampaignID(channel.Name, campaignType.Name, node.Name)
					cents := moneyCents(node.Budget)

					if acc, ok := accumulated[id]; ok {
						acc.cents += cents
						continue
					}

					accumulated[id] = &campaignAccumulator{
						channel: channel.Name,
						cents:   cents,
						campaign: domain.Campaign{
							ID:           id,
							Name:         node.Name,
							CampaignType: campaignType.Name,
							Percentage:   node.Percentage,
							Adsets:       []domain.AdsetEntry{},
							Fields:       channelFields(channel.Name, node),
						},
					}
					order = append(order, id)
				}
			}
		}
	}

	startDate := utils.FormatDate(flightStart)
	endDate := utils.FormatDate(flightEnd)

	for _, id := range order {
		acc := accumulated[id]
		campaign := acc.campaign
		campaign.Budget = domain.MoneyFromCents(acc.cents)
		campaign.StartDate = startDate
		campaign.EndDate = endDate

		byType, ok := result[acc.channel]
		if !ok {
			byType = make(map[string][]domain.Campaign)
			result[acc.channel] = byType
		}
		byType[campaign.CampaignType] = append(byType[campaign.CampaignType], campaign)
	}

	return result
}

func channelFields(channel string, node domain.Allocation) domain.ChannelFields {
	switch channel {
	case domain.ChannelAmazonDSP:
		return domain.AmazonDSPFields{
			Goal:               node.Goal,
			FrequencyCap:       node.FrequencyCap,
			FrequencyCapPeriod: node.FrequencyCapPeriod,
			BidStrategy:        node.BidStrategy,
		}
	case domain.ChannelFacebook:
		return domain.FacebookFields{
			Objective:  node.Objective,
			BuyingType: node.BuyingType,
		}
	default:
		return domain.CommonFields{}
	}
}

// AdsetSpecs agrega os adsets de cada campanha entre os períodos, indexados pelo id da campanha.
// Segue os mesmos filtros e a mesma ordem de ToChannelGroupedCampaigns.
func AdsetSpecs(
	allocations domain.AllocationsByPeriod,
	enabledChannels []string,
	flightStart, flightEnd time.Time,
) map[string][]domain.AdsetSpec {
	enabled := make(map[string]struct{}, len(enabledChannels))
	for _, ch := range enabledChannels {
		enabled[ch] = struct{}{}
	}

	cents := make(map[string]int64)
	specs := make(map[string][]domain.AdsetSpec)

	for _, periodID := range allocations.PeriodIDs() {
		for _, channel := range allocations[periodID].Allocations {
			if _, ok := enabled[channel.Name]; !ok {
				continue
			}
			for _, campaignType := range channel.Allocations {
				for _, campaign := range campaignType.Allocations {
					campaignID := CampaignID(channel.Name, campaignType.Name, campaign.Name)
					for _, adset := range campaign.Allocations {
						adsetID := AdsetID(campaignID, adset.Name)
						if _, seen := cents[adsetID]; !seen {
							specs[campaignID] = append(specs[campaignID], domain.AdsetSpec{
								ID:   adsetID,
								Name: adset.Name,
							})
						}
						cents[adsetID] += moneyCents(adset.Budget)
					}
				}
			}
		}
	}

	startDate := utils.FormatDate(flightStart)
	endDate := utils.FormatDate(flightEnd)
	for campaignID, list := range specs {
		for i := range list {
			list[i].Budget = domain.MoneyFromCents(cents[list[i].ID])
			list[i].StartDate = startDate
			list[i].EndDate = endDate
		}
		specs[campaignID] = list
	}

	return specs
}

// ToTimePeriodHierarchy monta a visão canal -> campanha -> período -> adsets.
//
// Os períodos são percorridos na ordem da lista periods (cronológica). Períodos presentes
// na árvore mas ausentes da lista entram no final, em ordem de id, sem label nem dias.
func ToTimePeriodHierarchy(allocations domain.AllocationsByPeriod, periods []domain.Period) []domain.ChannelReport {
	channels := make([]domain.ChannelReport, 0)
	if len(allocations) == 0 {
		return channels
	}

	channelIndex := make(map[string]int)
	campaignIndex := make(map[string]map[string]int)

	for _, period := range orderedPeriods(allocations, periods) {
		periodAllocation, ok := allocations[period.ID]
		if !ok {
			continue
		}

		for _, channel := range periodAllocation.Allocations {
			ci, ok := channelIndex[channel.Name]
			if !ok {
				channels = append(channels, domain.ChannelReport{
					Name:      channel.Name,
					Campaigns: []domain.CampaignReport{},
				})
				ci = len(channels) - 1
				channelIndex[channel.Name] = ci
				campaignIndex[channel.Name] = make(map[string]int)
			}

			for _, campaignType := range channel.Allocations {
				for _, node := range campaignType.Allocations {
					id := CampaignID(channel.Name, campaignType.Name, node.Name)
					timePeriod := domain.TimePeriod{
						ID:         period.ID,
						Label:      period.Label,
						Days:       period.Days,
						Budget:     node.Budget,
						Percentage: node.Percentage,
						Adsets:     cloneAllocations(node.Allocations),
					}

					if idx, exists := campaignIndex[channel.Name][id]; exists {
						campaign := &channels[ci].Campaigns[idx]
						campaign.TimePeriods = append(campaign.TimePeriods, timePeriod)
						continue
					}

					channels[ci].Campaigns = append(channels[ci].Campaigns, domain.CampaignReport{
						ID:           id,
						Name:         node.Name,
						CampaignType: campaignType.Name,
						TimePeriods:  []domain.TimePeriod{timePeriod},
					})
					campaignIndex[channel.Name][id] = len(channels[ci].Campaigns) - 1
				}
			}
		}
	}

	return channels
}

// FlattenTimePeriodHierarchy devolve a visão por canal ao formato por período.
// É o inverso de ToTimePeriodHierarchy a menos da ordem entre tipos de campanha.
// Nenhum fluxo da API usa; existe para os testes verificarem a ida e volta entre os formatos.
func FlattenTimePeriodHierarchy(channels []domain.ChannelReport) domain.AllocationsByPeriod {
	result := domain.AllocationsByPeriod{}

	for _, channel := range channels {
		for _, campaign := range channel.Campaigns {
			for _, tp := range campaign.TimePeriods {
				periodAllocation := result[tp.ID]

				channelNode := findOrAppend(&periodAllocation.Allocations, channel.Name)
				typeNode := findOrAppend(&channelNode.Allocations, campaign.CampaignType)
				typeNode.Allocations = append(typeNode.Allocations, domain.Allocation{
					ID:          campaign.ID,
					Name:        campaign.Name,
					Budget:      tp.Budget,
					Percentage:  tp.Percentage,
					Allocations: cloneAllocations(tp.Adsets),
				})

				result[tp.ID] = periodAllocation
			}
		}
	}

	return result
}

func findOrAppend(nodes *[]domain.Allocation, name string) *domain.Allocation {
	for i := range *nodes {
		if (*nodes)[i].Name == name {
			return &(*nodes)[i]
		}
	}
	*nodes = append(*nodes, domain.Allocation{Name: name, Allocations: []domain.Allocation{}})
	return &(*nodes)[len(*nodes)-1]
}

func orderedPeriods(allocations domain.AllocationsByPeriod, periods []domain.Period) []domain.Period {
	ordered := make([]domain.Period, 0, len(allocations))
	known := make(map[string]struct{}, len(periods))
	for _, p := range periods {
		if _, dup := known[p.ID]; dup {
			continue
		}
		known[p.ID] = struct{}{}
		ordered = append(ordered, p)
	}

	for _, id := range allocations.PeriodIDs() {
		if _, ok := known[id]; !ok {
			ordered = append(ordered, domain.Period{ID: id})
		}
	}

	return ordered
}

func cloneAllocations(nodes []domain.Allocation) []domain.Allocation {
	out := make([]domain.Allocation, len(nodes))
	for i, n := range nodes {
		n.Allocations = cloneAllocations(n.Allocations)
		out[i] = n
	}
	return out
}
