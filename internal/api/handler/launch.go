package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/campaign-manager-api/internal/usecases/orchestrating"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/queueing"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-manager-api/pkg/log"
)

// DrainTrigger dispara o processamento da fila logo após um lançamento
type DrainTrigger interface {
	TriggerManualSync() bool
}

// LaunchCampaignGroup cria as orders na plataforma e enfileira os adsets do grupo
func LaunchCampaignGroup(launcher orchestrating.Launcher, trigger DrainTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, clientID, ok := campaignGroupScope(w, r)
		if !ok {
			return
		}

		logger := log.ForContext(r.Context()).WithField("campaign_group_id", groupID)

		result, err := launcher.Launch(r.Context(), groupID, clientID)
		if err != nil && result == nil {
			switch {
			case errors.Is(err, orchestrating.ErrCampaignGroupNotFound):
				apiErrors.WriteError(w, apiErrors.ErrCampaignGroupNotFound, "Grupo de campanhas não encontrado", nil)
			case errors.Is(err, orchestrating.ErrBudgetNotFound):
				apiErrors.WriteError(w, apiErrors.ErrBudgetNotFound, "Nenhum orçamento salvo para o grupo", nil)
			case errors.Is(err, orchestrating.ErrNothingToLaunch):
				apiErrors.WriteError(w, apiErrors.ErrNothingToLaunch, "Nenhuma campanha pendente de criação na plataforma", nil)
			case errors.Is(err, orchestrating.ErrMissingProfile):
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Grupo de campanhas sem perfil de anunciante", nil)
			case errors.Is(err, queueing.ErrQueueWrite):
				logger.WithError(err).Error("Erro ao enfileirar adsets")
				apiErrors.WriteError(w, apiErrors.ErrQueueWrite, "Erro ao enfileirar adsets", nil)
			default:
				logger.WithError(err).Error("Erro ao lançar campanhas")
				apiErrors.WriteError(w, apiErrors.ErrExternalService, "Erro ao lançar campanhas na plataforma", nil)
			}
			return
		}

		if trigger != nil && result.JobsEnqueued > 0 {
			trigger.TriggerManualSync()
		}

		if err != nil {
			// lançamento parcial: o que foi criado já está no snapshot
			logger.WithError(err).Warn("Lançamento parcial")
			writeJSON(w, r, http.StatusAccepted, map[string]any{
				"result": result,
				"error":  apiErrors.FromError(err, apiErrors.ErrLaunchUnavailable),
			})
			return
		}

		writeJSON(w, r, http.StatusAccepted, result)
	}
}
