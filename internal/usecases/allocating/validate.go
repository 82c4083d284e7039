package allocating

import (
	"fmt"
	"math"

	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/pkg/utils"
)

// Validate confere o formato da árvore antes da transformação.
// A soma dos percentuais não é validada aqui; veja PercentageDrift.
func Validate(allocations domain.AllocationsByPeriod) error {
	for _, periodID := range allocations.PeriodIDs() {
		channels := allocations[periodID].Allocations
		if channels == nil {
			return &ValidationError{Path: periodID, Reason: "allocations must be a list"}
		}

		for _, channel := range channels {
			if err := validateNode(periodID, channel, 0); err != nil {
				return err
			}
		}
	}

	return nil
}

var levelNames = []string{"channel", "campaign type", "campaign", "adset"}

func validateNode(parentPath string, node domain.Allocation, level int) error {
	path := fmt.Sprintf("%s/%s", parentPath, node.Name)

	if node.Name == "" {
		return &ValidationError{Path: path, Reason: levelNames[level] + " name is required"}
	}
	if node.Budget < 0 || math.IsNaN(float64(node.Budget)) {
		return &ValidationError{Path: path, Reason: "budget must not be negative"}
	}
	if node.Percentage < 0 || node.Percentage > 100 {
		return &ValidationError{Path: path, Reason: "percentage must be between 0 and 100"}
	}

	if level == len(levelNames)-1 {
		if len(node.Allocations) > 0 {
			return &ValidationError{Path: path, Reason: "adsets cannot have children"}
		}
		return nil
	}

	for _, child := range node.Allocations {
		if err := validateNode(path, child, level+1); err != nil {
			return err
		}
	}

	return nil
}

// PercentageDrift devolve o quanto a soma dos percentuais dos irmãos se afasta de 100.
// A soma não é checada em runtime; os testes usam esta função para verificar as árvores geradas.
func PercentageDrift(siblings []domain.Allocation) float64 {
	if len(siblings) == 0 {
		return 0
	}

	var total float64
	for _, s := range siblings {
		total += s.Percentage
	}

	return utils.RoundWithTwoDecimalPlace(math.Abs(100 - total))
}
