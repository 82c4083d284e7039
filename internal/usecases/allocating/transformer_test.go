package allocating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

var (
	flightStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	flightEnd   = time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	testPeriods = []domain.Period{
		{ID: "2024-01", Label: "Janeiro", Days: 31},
		{ID: "2024-02", Label: "Fevereiro", Days: 29},
	}
)

func adset(name string, budget domain.Money, percentage float64) domain.Allocation {
	return domain.Allocation{Name: name, Budget: budget, Percentage: percentage, Allocations: []domain.Allocation{}}
}

func campaign(name string, budget domain.Money, adsets ...domain.Allocation) domain.Allocation {
	return domain.Allocation{Name: name, Budget: budget, Percentage: 100, Allocations: adsets}
}

func channel(name string, types ...domain.Allocation) domain.Allocation {
	return domain.Allocation{Name: name, Percentage: 50, Allocations: types}
}

func campaignType(name string, campaigns ...domain.Allocation) domain.Allocation {
	return domain.Allocation{Name: name, Percentage: 100, Allocations: campaigns}
}

func sampleAllocations() domain.AllocationsByPeriod {
	dspCampaign := func(budget domain.Money) domain.Allocation {
		c := campaign("Lançamento", budget, adset("Retargeting", budget*0.4, 40), adset("Prospecção", budget*0.6, 60))
		c.Goal = "AWARENESS"
		c.FrequencyCap = 3
		c.BidStrategy = "MAXIMIZE_PERFORMANCE"
		return c
	}

	fbCampaign := campaign("Verão", 50, adset("Lookalike", 50, 100))
	fbCampaign.Objective = "CONVERSIONS"
	fbCampaign.BuyingType = "AUCTION"

	return domain.AllocationsByPeriod{
		"2024-01": {Allocations: []domain.Allocation{
			channel(domain.ChannelAmazonDSP, campaignType("Display", dspCampaign(100))),
			channel(domain.ChannelFacebook, campaignType("Feed", fbCampaign)),
			channel("TikTok", campaignType("Video", campaign("Teaser", 10))),
		}},
		"2024-02": {Allocations: []domain.Allocation{
			channel(domain.ChannelAmazonDSP, campaignType("Display", dspCampaign(200))),
		}},
	}
}

func TestToChannelGroupedCampaigns_AccumulatesAcrossPeriods(t *testing.T) {
	result := ToChannelGroupedCampaigns(
		sampleAllocations(),
		[]string{domain.ChannelAmazonDSP, domain.ChannelFacebook},
		flightStart,
		flightEnd,
	)

	require.Contains(t, result, domain.ChannelAmazonDSP)
	display := result[domain.ChannelAmazonDSP]["Display"]
	require.Len(t, display, 1)

	c := display[0]
	assert.Equal(t, "Amazon DSP-Display-Lançamento", c.ID)
	assert.Equal(t, domain.Money(300), c.Budget)
	assert.Equal(t, "2024-01-01", c.StartDate)
	assert.Equal(t, "2024-02-29", c.EndDate)
	assert.Equal(t, domain.AmazonDSPFields{
		Goal:         "AWARENESS",
		FrequencyCap: 3,
		BidStrategy:  "MAXIMIZE_PERFORMANCE",
	}, c.Fields)
	assert.Empty(t, c.Adsets)
}

func TestToChannelGroupedCampaigns_ChannelVariants(t *testing.T) {
	result := ToChannelGroupedCampaigns(
		sampleAllocations(),
		[]string{domain.ChannelAmazonDSP, domain.ChannelFacebook, "TikTok"},
		flightStart,
		flightEnd,
	)

	fb := result[domain.ChannelFacebook]["Feed"]
	require.Len(t, fb, 1)
	assert.Equal(t, domain.FacebookFields{Objective: "CONVERSIONS", BuyingType: "AUCTION"}, fb[0].Fields)

	tiktok := result["TikTok"]["Video"]
	require.Len(t, tiktok, 1)
	assert.Equal(t, domain.CommonFields{}, tiktok[0].Fields)
	assert.Equal(t, domain.Money(10), tiktok[0].Budget)
}

func TestToChannelGroupedCampaigns_SkipsDisabledChannels(t *testing.T) {
	result := ToChannelGroupedCampaigns(sampleAllocations(), []string{domain.ChannelFacebook}, flightStart, flightEnd)

	assert.NotContains(t, result, domain.ChannelAmazonDSP)
	assert.NotContains(t, result, "TikTok")
	assert.Len(t, result, 1)
}

func TestToChannelGroupedCampaigns_EmptyInput(t *testing.T) {
	assert.Empty(t, ToChannelGroupedCampaigns(nil, []string{domain.ChannelAmazonDSP}, flightStart, flightEnd))
	assert.Empty(t, ToChannelGroupedCampaigns(domain.AllocationsByPeriod{}, nil, flightStart, flightEnd))
}

func TestToChannelGroupedCampaigns_CentPrecision(t *testing.T) {
	allocations := domain.AllocationsByPeriod{
		"p1": {Allocations: []domain.Allocation{channel("Search", campaignType("Brand", campaign("Marca", 0.1)))}},
		"p2": {Allocations: []domain.Allocation{channel("Search", campaignType("Brand", campaign("Marca", 0.2)))}},
	}

	result := ToChannelGroupedCampaigns(allocations, []string{"Search"}, flightStart, flightEnd)

	assert.Equal(t, domain.Money(0.3), result["Search"]["Brand"][0].Budget)
}

func TestToChannelGroupedCampaigns_FirstEncounterOrder(t *testing.T) {
	allocations := domain.AllocationsByPeriod{
		"p1": {Allocations: []domain.Allocation{
			channel("Search", campaignType("Brand", campaign("B", 1), campaign("A", 1))),
		}},
		"p2": {Allocations: []domain.Allocation{
			channel("Search", campaignType("Brand", campaign("C", 1), campaign("B", 1))),
		}},
	}

	result := ToChannelGroupedCampaigns(allocations, []string{"Search"}, flightStart, flightEnd)

	names := []string{}
	for _, c := range result["Search"]["Brand"] {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"B", "A", "C"}, names)
	assert.Equal(t, domain.Money(2), result["Search"]["Brand"][0].Budget)
}

func TestAdsetSpecs(t *testing.T) {
	specs := AdsetSpecs(sampleAllocations(), []string{domain.ChannelAmazonDSP}, flightStart, flightEnd)

	list := specs["Amazon DSP-Display-Lançamento"]
	require.Len(t, list, 2)
	assert.Equal(t, "Amazon DSP-Display-Lançamento-Retargeting", list[0].ID)
	assert.Equal(t, domain.Money(120), list[0].Budget)
	assert.Equal(t, domain.Money(180), list[1].Budget)
	assert.Equal(t, "2024-01-01", list[1].StartDate)
	assert.NotContains(t, specs, "Facebook-Feed-Verão")
}

func TestToTimePeriodHierarchy(t *testing.T) {
	channels := ToTimePeriodHierarchy(sampleAllocations(), testPeriods)

	require.Len(t, channels, 3)
	assert.Equal(t, domain.ChannelAmazonDSP, channels[0].Name)

	dsp := channels[0].Campaigns
	require.Len(t, dsp, 1, "campanha repetida entre períodos não deve duplicar")
	require.Len(t, dsp[0].TimePeriods, 2)

	jan := dsp[0].TimePeriods[0]
	assert.Equal(t, "2024-01", jan.ID)
	assert.Equal(t, "Janeiro", jan.Label)
	assert.Equal(t, 31, jan.Days)
	assert.Equal(t, domain.Money(100), jan.Budget)
	require.Len(t, jan.Adsets, 2)
	assert.Equal(t, "Retargeting", jan.Adsets[0].Name)

	feb := dsp[0].TimePeriods[1]
	assert.Equal(t, "2024-02", feb.ID)
	assert.Equal(t, 29, feb.Days)
}

func TestToTimePeriodHierarchy_FollowsPeriodListOrder(t *testing.T) {
	reversed := []domain.Period{testPeriods[1], testPeriods[0]}

	channels := ToTimePeriodHierarchy(sampleAllocations(), reversed)

	tps := channels[0].Campaigns[0].TimePeriods
	require.Len(t, tps, 2)
	assert.Equal(t, "2024-02", tps[0].ID)
	assert.Equal(t, "2024-01", tps[1].ID)
}

func TestToTimePeriodHierarchy_UnknownPeriodGoesLast(t *testing.T) {
	allocations := sampleAllocations()
	allocations["2024-03"] = domain.PeriodAllocation{Allocations: []domain.Allocation{
		channel(domain.ChannelAmazonDSP, campaignType("Display", campaign("Lançamento", 5))),
	}}

	channels := ToTimePeriodHierarchy(allocations, testPeriods)

	tps := channels[0].Campaigns[0].TimePeriods
	require.Len(t, tps, 3)
	assert.Equal(t, "2024-03", tps[2].ID)
	assert.Empty(t, tps[2].Label)
}

func TestToTimePeriodHierarchy_ReshapeIsIdempotent(t *testing.T) {
	first := ToTimePeriodHierarchy(sampleAllocations(), testPeriods)
	second := ToTimePeriodHierarchy(FlattenTimePeriodHierarchy(first), testPeriods)

	assert.ElementsMatch(t, campaignIDs(first), campaignIDs(second))
	assert.Equal(t, adsetTotals(first), adsetTotals(second))
}

func campaignIDs(channels []domain.ChannelReport) []string {
	ids := []string{}
	for _, ch := range channels {
		for _, c := range ch.Campaigns {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func adsetTotals(channels []domain.ChannelReport) map[string]int64 {
	totals := map[string]int64{}
	for _, ch := range channels {
		for _, c := range ch.Campaigns {
			for _, tp := range c.TimePeriods {
				for _, a := range tp.Adsets {
					cents, _ := CentsFromCurrency(a.Budget)
					totals[c.ID+"|"+tp.ID] += cents
				}
			}
		}
	}
	return totals
}

func TestToTimePeriodHierarchy_DoesNotShareAdsetSlices(t *testing.T) {
	allocations := sampleAllocations()

	channels := ToTimePeriodHierarchy(allocations, testPeriods)
	channels[0].Campaigns[0].TimePeriods[0].Adsets[0].Name = "alterado"

	original := allocations["2024-01"].Allocations[0].Allocations[0].Allocations[0].Allocations[0]
	assert.Equal(t, "Retargeting", original.Name)
}
