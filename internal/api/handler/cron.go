package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/internal/scheduler"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeJobQueue = "job-queue"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	JobQueueDrainService *scheduler.JobQueueDrainService
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeJobQueue:
			if services.JobQueueDrainService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço da fila de jobs não disponível", nil)
				return
			}
			if !services.JobQueueDrainService.TriggerManualSync() {
				apiErrors.WriteError(w, apiErrors.ErrDrainInProgress, "Drain da fila de jobs já em andamento", nil)
				return
			}
		default:
			apiErrors.WriteError(w, apiErrors.ErrUnknownCronJob, "Tipo de cron job inválido. Valores aceitos: job-queue", nil)
			return
		}

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := map[string]any{}
		if services.JobQueueDrainService != nil {
			status[CronJobTypeJobQueue] = services.JobQueueDrainService.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
