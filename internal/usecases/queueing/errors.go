package queueing

import (
	"errors"
	"fmt"
)

// ErrQueueWrite indica que o job não pôde ser gravado; nenhum job foi criado
var ErrQueueWrite = errors.New("failed to write job to queue")

// ProcessingError envolve qualquer falha do callback de processamento, inclusive panic
type ProcessingError struct {
	JobID int64
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("job %d: %v", e.JobID, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
