// Package metrics expõe as métricas Prometheus da API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "campaign_manager"

var (
	// QueueJobsEnqueued conta jobs gravados na fila
	QueueJobsEnqueued = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "jobs_enqueued_total",
			Help:      "Total number of jobs written to the queue",
		},
	)

	// QueueJobsProcessed conta jobs finalizados por status
	QueueJobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "jobs_processed_total",
			Help:      "Total number of jobs processed from the queue by final status",
		},
		[]string{"status"},
	)

	QueueJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "job_duration_seconds",
			Help:      "Duration of a single job processing in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// QueueDrainInProgress vale 1 enquanto um drain está rodando neste processo
	QueueDrainInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "drain_in_progress",
			Help:      "Whether a queue drain is currently running in this process",
		},
	)

	QueueBatchesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "batches_completed_total",
			Help:      "Total number of batch completion callbacks by result",
		},
		[]string{"result"},
	)

	// BudgetSnapshotsCreated conta snapshots gravados por origem (edit, launch, reconcile)
	BudgetSnapshotsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "budget",
			Name:      "snapshots_created_total",
			Help:      "Total number of budget snapshots created by source",
		},
		[]string{"source"},
	)

	PlatformRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "platform",
			Name:      "requests_total",
			Help:      "Total number of ad platform requests by operation and result",
		},
		[]string{"operation", "result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "status_code"},
	)
)

// Result devolve o rótulo de resultado usado nos contadores
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
