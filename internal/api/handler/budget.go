package handler

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/allocating"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/budgeting"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-manager-api/pkg/log"
	"github.com/vfg2006/campaign-manager-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetBudget retorna o snapshot de orçamento mais recente do grupo
func GetBudget(service budgeting.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, clientID, ok := campaignGroupScope(w, r)
		if !ok {
			return
		}

		budget, err := service.CurrentBudget(r.Context(), groupID, clientID)
		if err != nil {
			writeBudgetError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, budget)
	}
}

// SaveBudget grava um novo snapshot a partir da árvore de alocação enviada
func SaveBudget(service budgeting.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, clientID, ok := campaignGroupScope(w, r)
		if !ok {
			return
		}

		var req domain.SaveBudgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Corpo de orçamento inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		budget, err := service.SaveBudget(r.Context(), groupID, clientID, req)
		if err != nil {
			writeBudgetError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, budget)
	}
}

// GetBudgetReport retorna a visão canal -> campanha -> período
func GetBudgetReport(service budgeting.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, clientID, ok := campaignGroupScope(w, r)
		if !ok {
			return
		}

		report, err := service.Report(r.Context(), groupID, clientID)
		if err != nil {
			writeBudgetError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, report)
	}
}

// GetChannelCampaigns retorna as campanhas agregadas por canal e tipo
func GetChannelCampaigns(service budgeting.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, clientID, ok := campaignGroupScope(w, r)
		if !ok {
			return
		}

		campaigns, err := service.ChannelCampaigns(r.Context(), groupID, clientID)
		if err != nil {
			writeBudgetError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, campaigns)
	}
}

func writeBudgetError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *allocating.ValidationError

	switch {
	case errors.Is(err, budgeting.ErrCampaignGroupNotFound):
		apiErrors.WriteError(w, apiErrors.ErrCampaignGroupNotFound, "Grupo de campanhas não encontrado", nil)
	case errors.Is(err, budgeting.ErrBudgetNotFound):
		apiErrors.WriteError(w, apiErrors.ErrBudgetNotFound, "Nenhum orçamento salvo para o grupo", nil)
	case errors.As(err, &validationErr):
		apiErrors.WriteError(w, apiErrors.ErrInvalidAllocation, validationErr.Reason, map[string]string{"path": validationErr.Path})
	case errors.Is(err, budgeting.ErrInvalidRequest):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
	default:
		log.ForContext(r.Context()).WithError(err).Error("Erro ao processar orçamento")
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao processar orçamento", nil)
	}
}

// campaignGroupScope extrai o id do grupo da URL e o cliente das claims do token
func campaignGroupScope(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if idStr == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do grupo de campanhas não fornecido", nil)
		return 0, "", false
	}

	groupID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do grupo de campanhas inválido", nil)
		return 0, "", false
	}

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.ClientID == "" {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Token sem cliente associado", nil)
		return 0, "", false
	}

	return groupID, claims.ClientID, true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao codificar resposta")
	}
}
