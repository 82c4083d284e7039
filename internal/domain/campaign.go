package domain

import (
	"encoding/json"
	"fmt"
)

// Identificadores do variante de campos por canal
const (
	PlatformCommon    = "common"
	PlatformAmazonDSP = "amazon_dsp"
	PlatformFacebook  = "facebook"
)

// ChannelFields é o variante de campos específicos do canal.
// Implementado apenas por CommonFields, AmazonDSPFields e FacebookFields.
type ChannelFields interface {
	Platform() string
}

type CommonFields struct{}

func (CommonFields) Platform() string { return PlatformCommon }

type AmazonDSPFields struct {
	Goal               string `json:"goal"`
	FrequencyCap       int    `json:"frequencyCap"`
	FrequencyCapPeriod string `json:"frequencyCapPeriod"`
	BidStrategy        string `json:"bidStrategy"`
}

func (AmazonDSPFields) Platform() string { return PlatformAmazonDSP }

type FacebookFields struct {
	Objective  string `json:"objective"`
	BuyingType string `json:"buyingType"`
}

func (FacebookFields) Platform() string { return PlatformFacebook }

// Campaign é a campanha agregada entre períodos, agrupada por canal e tipo
type Campaign struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CampaignType string        `json:"campaignType"`
	Budget       Money         `json:"budget"`
	Percentage   float64       `json:"percentage"`
	StartDate    string        `json:"startDate"`
	EndDate      string        `json:"endDate"`
	OrderID      string        `json:"orderId,omitempty"`
	Adsets       []AdsetEntry  `json:"adsets"`
	Fields       ChannelFields `json:"-"`
}

// ChannelCampaigns agrupa campanhas por canal e depois por tipo de campanha
type ChannelCampaigns map[string]map[string][]Campaign

// MarshalJSON achata os campos do variante no objeto da campanha
func (c Campaign) MarshalJSON() ([]byte, error) {
	type alias Campaign

	if c.Adsets == nil {
		c.Adsets = []AdsetEntry{}
	}

	base, err := json.Marshal(alias(c))
	if err != nil {
		return nil, err
	}

	fields := c.Fields
	if fields == nil {
		fields = CommonFields{}
	}

	extra, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(extra, &merged); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}

	platform, _ := json.Marshal(fields.Platform())
	merged["platform"] = platform

	return json.Marshal(merged)
}

func (c *Campaign) UnmarshalJSON(data []byte) error {
	type alias Campaign

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var tag struct {
		Platform string `json:"platform"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}

	switch tag.Platform {
	case PlatformAmazonDSP:
		var f AmazonDSPFields
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		a.Fields = f
	case PlatformFacebook:
		var f FacebookFields
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		a.Fields = f
	case PlatformCommon, "":
		a.Fields = CommonFields{}
	default:
		return fmt.Errorf("plataforma de campanha desconhecida: %s", tag.Platform)
	}

	*c = Campaign(a)
	return nil
}

// Clone copia a estrutura de agrupamento e as listas de campanhas e adsets.
// Os objetos de resultado de adset são compartilhados e tratados como imutáveis.
func (cc ChannelCampaigns) Clone() ChannelCampaigns {
	out := make(ChannelCampaigns, len(cc))
	for channel, byType := range cc {
		types := make(map[string][]Campaign, len(byType))
		for campaignType, campaigns := range byType {
			list := make([]Campaign, len(campaigns))
			for i, c := range campaigns {
				c.Adsets = append([]AdsetEntry(nil), c.Adsets...)
				list[i] = c
			}
			types[campaignType] = list
		}
		out[channel] = types
	}
	return out
}

// Find localiza uma campanha pelo id, devolvendo canal e tipo onde ela está
func (cc ChannelCampaigns) Find(campaignID string) (channel, campaignType string, index int, ok bool) {
	for ch, byType := range cc {
		for ct, campaigns := range byType {
			for i := range campaigns {
				if campaigns[i].ID == campaignID {
					return ch, ct, i, true
				}
			}
		}
	}
	return "", "", -1, false
}

// AdsetResult é o objeto devolvido pela plataforma para um adset criado
type AdsetResult map[string]any

// AdsetEntry é um adset da campanha: ou um marcador pendente de job, ou o resultado resolvido
type AdsetEntry struct {
	PendingJobID *int64
	Result       AdsetResult
}

func PendingAdset(jobID int64) AdsetEntry {
	return AdsetEntry{PendingJobID: &jobID}
}

func ResolvedAdset(result AdsetResult) AdsetEntry {
	return AdsetEntry{Result: result}
}

func (e AdsetEntry) IsPendingFor(jobID int64) bool {
	return e.PendingJobID != nil && *e.PendingJobID == jobID
}

func (e AdsetEntry) MarshalJSON() ([]byte, error) {
	if e.PendingJobID != nil {
		return json.Marshal(struct {
			JobID int64       `json:"jobId"`
			Adset AdsetResult `json:"adset"`
		}{JobID: *e.PendingJobID})
	}

	if e.Result == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(e.Result)
}

func (e *AdsetEntry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	rawJobID, hasJobID := fields["jobId"]
	rawAdset, hasAdset := fields["adset"]
	if hasJobID && (!hasAdset || string(rawAdset) == "null") {
		var jobID int64
		if err := json.Unmarshal(rawJobID, &jobID); err != nil {
			return fmt.Errorf("jobId inválido no adset pendente: %w", err)
		}
		*e = PendingAdset(jobID)
		return nil
	}

	var result AdsetResult
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}
	*e = ResolvedAdset(result)
	return nil
}
