package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

const (
	// Erros de autenticação
	ErrInvalidToken          = "AUTH_006" // Token inválido
	ErrExpiredToken          = "AUTH_007" // Token expirado
	ErrInsufficientPrivilege = "AUTH_008" // Privilégios insuficientes

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrInvalidAllocation   = "VAL_004" // Árvore de alocação inválida

	// Recursos inexistentes
	ErrCampaignGroupNotFound = "RES_001" // Grupo de campanhas não encontrado
	ErrBudgetNotFound        = "RES_002" // Nenhum orçamento salvo para o grupo
	ErrCampaignNotFound      = "RES_003" // Campanha não encontrada no orçamento
	ErrRouteNotFound         = "RES_004" // Rota inexistente

	// Fila de jobs
	ErrQueueWrite        = "QUE_001" // Falha ao gravar job
	ErrDrainInProgress   = "QUE_002" // Drain já em andamento
	ErrUnknownCronJob    = "QUE_003" // Tipo de cron desconhecido
	ErrNothingToLaunch   = "QUE_004" // Nenhum adset a criar
	ErrLaunchUnavailable = "QUE_005" // Orquestração indisponível

	// Erros do servidor
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrExternalService   = "SRV_003" // Erro em serviço externo
	ErrCommunication     = "SRV_004" // Erro de comunicação
)

var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrInvalidAllocation:     http.StatusUnprocessableEntity,
	ErrCampaignGroupNotFound: http.StatusNotFound,
	ErrBudgetNotFound:        http.StatusNotFound,
	ErrCampaignNotFound:      http.StatusNotFound,
	ErrRouteNotFound:         http.StatusNotFound,
	ErrQueueWrite:            http.StatusInternalServerError,
	ErrDrainInProgress:       http.StatusConflict,
	ErrUnknownCronJob:        http.StatusBadRequest,
	ErrNothingToLaunch:       http.StatusUnprocessableEntity,
	ErrLaunchUnavailable:     http.StatusServiceUnavailable,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrExternalService:       http.StatusBadGateway,
	ErrCommunication:         http.StatusServiceUnavailable,
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return e.Code + ": " + e.Message
}

// Status devolve o status HTTP do código, 500 quando desconhecido
func Status(code string) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(code))
	_ = jsoniter.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
