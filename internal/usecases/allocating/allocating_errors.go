package allocating

import (
	"errors"
	"fmt"
)

var (
	ErrNotNumeric        = errors.New("value is not numeric")
	ErrInvalidAllocation = errors.New("invalid allocation tree")
)

// ValidationError aponta o nó da árvore com formato inválido
type ValidationError struct {
	Path   string // caminho do nó, ex: "2024-01/Amazon DSP/Display/Campanha A"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidAllocation.Error(), e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidAllocation
}
