package allocating

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

// CentsFromCurrency converte um valor (número ou string numérica) para centavos,
// arredondando metade para longe do zero na casa do centavo.
//
// O arredondamento é feito sobre a representação decimal do valor e não sobre o
// float, então "10.005" e 10.005 resultam ambos em 1001.
func CentsFromCurrency(value any) (int64, error) {
	var s string

	switch v := value.(type) {
	case string:
		s = strings.TrimSpace(v)
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case domain.Money:
		s = strconv.FormatFloat(float64(v), 'f', -1, 64)
	case int:
		return int64(v) * 100, nil
	case int64:
		return v * 100, nil
	case int32:
		return int64(v) * 100, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, value)
	}

	return centsFromDecimalString(s)
}

func centsFromDecimalString(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}

	// notação científica e afins são normalizadas para decimal
	if strings.ContainsAny(s, "eE") || strings.HasPrefix(s, "+") {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}

	fracPart += "000"
	cents := whole*100 + int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
	if fracPart[2] >= '5' {
		cents++
	}

	if negative {
		cents = -cents
	}

	return cents, nil
}

func moneyCents(m domain.Money) int64 {
	// Money sempre vem de um float válido, então não há erro possível aqui
	cents, _ := CentsFromCurrency(m)
	return cents
}
