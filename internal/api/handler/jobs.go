package handler

import (
	"net/http"

	"github.com/vfg2006/campaign-manager-api/internal/usecases/queueing"
	"github.com/vfg2006/campaign-manager-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-manager-api/pkg/log"
)

func ListCompletedJobs(queue queueing.JobQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := queue.ListCompleted(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao listar jobs concluídos")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar jobs concluídos", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, jobs)
	}
}
