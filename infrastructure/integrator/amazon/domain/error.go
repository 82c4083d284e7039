package amazondomain

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrTokenRefreshed = errors.New("token expirado e renovado, por favor tente novamente")

// ErrorResponse representa a estrutura de erro da API de anúncios da Amazon
type ErrorResponse struct {
	Code      string `json:"code"`
	Details   string `json:"details"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

func (e *ErrorResponse) Description() string {
	if e.Details != "" {
		return e.Details
	}
	return e.Message
}

// IsTokenExpired verifica se o erro é de token expirado ou inválido
func (e *ErrorResponse) IsTokenExpired(statusCode int) bool {
	return statusCode == http.StatusUnauthorized || e.Code == "UNAUTHORIZED" || e.Code == "401"
}

// AdsetCreationError é devolvido quando a plataforma recusa a criação de um adset (line item)
type AdsetCreationError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *AdsetCreationError) Error() string {
	return fmt.Sprintf("amazon: falha ao criar adset (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
}

// Retryable indica se o erro é transitório do lado da plataforma
func (e *AdsetCreationError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// OrderCreationError é devolvido quando a plataforma recusa a criação de uma order (campanha DSP)
type OrderCreationError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("amazon: falha ao criar order (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
}
