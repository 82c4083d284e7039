package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Canais com campos específicos de plataforma
const (
	ChannelAmazonDSP = "Amazon DSP"
	ChannelFacebook  = "Facebook"
)

// Period representa um intervalo contábil dentro da janela de veiculação do grupo de campanhas
type Period struct {
	ID    string `json:"id" validate:"required"`
	Label string `json:"label" validate:"required"`
	Days  int    `json:"days" validate:"min=0"`
}

// Money é um valor monetário; aceita número ou string numérica no JSON
type Money float64

func MoneyFromCents(cents int64) Money {
	return Money(float64(cents) / 100)
}

func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = 0
		return nil
	}

	var raw json.Number
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*m = 0
			return nil
		}
		raw = json.Number(s)
	} else {
		raw = json.Number(data)
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("valor monetário inválido: %s", data)
	}

	*m = Money(f)
	return nil
}

// Allocation é um nó da árvore de alocação. O mesmo formato é usado em todos os níveis:
// canal -> tipo de campanha -> campanha -> adset.
type Allocation struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name" validate:"required"`
	Budget      Money        `json:"budget"`
	Percentage  float64      `json:"percentage"`
	Allocations []Allocation `json:"allocations"`

	// Parâmetros de plataforma, lidos apenas no nível de campanha
	Goal               string `json:"goal,omitempty"`
	FrequencyCap       int    `json:"frequencyCap,omitempty"`
	FrequencyCapPeriod string `json:"frequencyCapPeriod,omitempty"`
	BidStrategy        string `json:"bidStrategy,omitempty"`
	Objective          string `json:"objective,omitempty"`
	BuyingType         string `json:"buyingType,omitempty"`
}

// PeriodAllocation contém a lista de canais de um período
type PeriodAllocation struct {
	Allocations []Allocation `json:"allocations"`
}

// AllocationsByPeriod é a árvore editada pelo usuário, indexada pelo id do período
type AllocationsByPeriod map[string]PeriodAllocation

// PeriodIDs retorna os ids dos períodos em ordem lexicográfica.
// Mapas não têm ordem; quem precisar de ordem cronológica deve usar a lista de Period.
func (a AllocationsByPeriod) PeriodIDs() []string {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
