package queueing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
	"github.com/vfg2006/campaign-manager-api/pkg/metrics"
)

// ProcessFunc processa um job. Erro ou panic marcam o job como failed.
type ProcessFunc func(ctx context.Context, job *domain.Job) error

// BatchCompleteFunc é chamado uma vez por lote, quando o drain sai dele
type BatchCompleteFunc func(ctx context.Context, batchID string) error

type JobQueue interface {
	Enqueue(ctx context.Context, data domain.AdsetJobData, batchID string) (int64, error)
	Drain(ctx context.Context, process ProcessFunc) (DrainResult, error)
	ListCompleted(ctx context.Context) ([]domain.CompletedJob, error)
	IsProcessing() bool
}

// DrainResult resume uma passada do drain
type DrainResult struct {
	Processed int      `json:"processed"`
	Completed int      `json:"completed"`
	Failed    int      `json:"failed"`
	Batches   []string `json:"batches"`
	Skipped   bool     `json:"skipped"`
}

// Queue é a fila persistida com um único worker lógico por processo.
//
// A trava é apenas em memória: dois processos apontando para a mesma tabela podem
// drenar ao mesmo tempo e processar o mesmo job duas vezes.
type Queue struct {
	repo            repository.JobRepository
	onBatchComplete BatchCompleteFunc
	now             func() time.Time

	mu         sync.Mutex
	processing bool

	// serializa quem lê e grava snapshots de orçamento: cada job do drain e o lançamento
	snapshotMu sync.Mutex
}

func NewQueue(repo repository.JobRepository, onBatchComplete BatchCompleteFunc) *Queue {
	return &Queue{
		repo:            repo,
		onBatchComplete: onBatchComplete,
		now:             time.Now,
	}
}

// Enqueue grava um job pendente no lote informado
func (q *Queue) Enqueue(ctx context.Context, data domain.AdsetJobData, batchID string) (int64, error) {
	job := &domain.Job{
		Data:    data,
		Status:  domain.JobStatusPending,
		BatchID: batchID,
	}

	id, err := q.repo.Create(ctx, job)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrQueueWrite, err)
	}

	metrics.QueueJobsEnqueued.Inc()

	logrus.WithFields(logrus.Fields{
		"job_id":      id,
		"batch_id":    batchID,
		"campaign_id": data.CampaignID,
		"adset_id":    data.Adset.ID,
	}).Debug("Job enfileirado")

	return id, nil
}

func (q *Queue) IsProcessing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processing
}

// WithSnapshotLock executa fn sem nenhum job do drain em processamento.
// Quem enfileira jobs e grava o snapshot com os marcadores deles deve fazer as duas coisas aqui dentro.
func (q *Queue) WithSnapshotLock(fn func() error) error {
	q.snapshotMu.Lock()
	defer q.snapshotMu.Unlock()
	return fn()
}

func (q *Queue) acquire() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.processing {
		return false
	}
	q.processing = true
	metrics.QueueDrainInProgress.Set(1)
	return true
}

func (q *Queue) release() {
	q.mu.Lock()
	q.processing = false
	q.mu.Unlock()
	metrics.QueueDrainInProgress.Set(0)
}

// Drain processa os jobs pendentes em sequência, do lote mais antigo ao mais novo.
//
// Se outro drain já estiver rodando no processo, retorna sem fazer nada com Skipped=true.
// O contexto só é verificado entre jobs; um job iniciado sempre chega a completed ou failed.
// Interrompido por erro ou cancelamento, o lote corrente só dispara callback se não restar
// job pendente nele; caso contrário o próximo drain continua o lote e dispara ao terminá-lo.
func (q *Queue) Drain(ctx context.Context, process ProcessFunc) (DrainResult, error) {
	result := DrainResult{Batches: []string{}}

	if !q.acquire() {
		logrus.Info("Drain da fila já em andamento, ignorando")
		result.Skipped = true
		return result, nil
	}
	defer q.release()

	var currentBatch string

	for {
		if err := ctx.Err(); err != nil {
			q.finishInterruptedBatch(ctx, currentBatch, &result)
			return result, err
		}

		job, err := q.repo.NextPending(ctx)
		if err != nil {
			q.finishInterruptedBatch(ctx, currentBatch, &result)
			return result, fmt.Errorf("erro ao buscar próximo job pendente: %w", err)
		}
		if job == nil {
			break
		}

		if currentBatch != "" && job.BatchID != currentBatch {
			q.finishBatch(ctx, currentBatch, &result)
		}
		currentBatch = job.BatchID

		if err := q.repo.MarkProcessing(ctx, job.ID); err != nil {
			if errors.Is(err, repository.ErrJobStateConflict) {
				logrus.WithField("job_id", job.ID).Warn("Job já foi assumido por outro worker, pulando")
				continue
			}
			q.finishInterruptedBatch(ctx, currentBatch, &result)
			return result, fmt.Errorf("erro ao marcar job %d como processing: %w", job.ID, err)
		}

		q.runJob(ctx, job, process, &result)
	}

	if result.Processed > 0 {
		q.finishBatch(ctx, currentBatch, &result)
	}

	logrus.WithFields(logrus.Fields{
		"processed": result.Processed,
		"completed": result.Completed,
		"failed":    result.Failed,
		"batches":   len(result.Batches),
	}).Info("Drain da fila concluído")

	return result, nil
}

func (q *Queue) runJob(ctx context.Context, job *domain.Job, process ProcessFunc, result *DrainResult) {
	start := q.now()

	// o job não pode ficar preso em processing por cancelamento no meio do caminho
	jobCtx := context.WithoutCancel(ctx)
	q.snapshotMu.Lock()
	procErr := safeProcess(jobCtx, job, process)
	q.snapshotMu.Unlock()

	status := domain.JobStatusCompleted
	var errMsg *string
	if procErr != nil {
		status = domain.JobStatusFailed
		msg := procErr.Error()
		errMsg = &msg
	}

	processedAt := q.now()
	if err := q.repo.MarkFinished(jobCtx, job.ID, status, processedAt, errMsg); err != nil {
		logrus.WithFields(logrus.Fields{
			"job_id":   job.ID,
			"batch_id": job.BatchID,
			"status":   status,
			"error":    err.Error(),
		}).Error("Erro ao finalizar job")
	}

	result.Processed++
	metrics.QueueJobsProcessed.WithLabelValues(string(status)).Inc()
	metrics.QueueJobDuration.Observe(processedAt.Sub(start).Seconds())

	fields := logrus.Fields{
		"job_id":      job.ID,
		"batch_id":    job.BatchID,
		"campaign_id": job.Data.CampaignID,
	}

	if procErr != nil {
		result.Failed++
		logrus.WithFields(fields).WithError(procErr).Error("Falha ao processar job")
		return
	}

	result.Completed++
	logrus.WithFields(fields).Info("Job processado com sucesso")
}

func safeProcess(ctx context.Context, job *domain.Job, process ProcessFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ProcessingError{JobID: job.ID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := process(ctx, job); err != nil {
		return &ProcessingError{JobID: job.ID, Err: err}
	}
	return nil
}

func (q *Queue) finishBatch(ctx context.Context, batchID string, result *DrainResult) {
	if batchID == "" || result.Processed == 0 {
		return
	}
	for _, done := range result.Batches {
		if done == batchID {
			return
		}
	}
	result.Batches = append(result.Batches, batchID)

	if q.onBatchComplete == nil {
		return
	}

	err := q.onBatchComplete(context.WithoutCancel(ctx), batchID)
	metrics.QueueBatchesCompleted.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"batch_id": batchID,
			"error":    err.Error(),
		}).Error("Erro no callback de lote concluído")
	}
}

// finishInterruptedBatch dispara o callback do lote corrente quando o drain para no meio
// mas o lote já não tem jobs pendentes; nenhum drain futuro voltaria a ele.
func (q *Queue) finishInterruptedBatch(ctx context.Context, batchID string, result *DrainResult) {
	if batchID == "" || result.Processed == 0 {
		return
	}

	summary, err := q.repo.SummarizeBatch(context.WithoutCancel(ctx), batchID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"batch_id": batchID,
			"error":    err.Error(),
		}).Error("Erro ao verificar lote interrompido")
		return
	}
	if summary == nil || summary.Pending > 0 {
		return
	}

	q.finishBatch(ctx, batchID, result)
}

// ListCompleted devolve id e processed_at de todos os jobs completed
func (q *Queue) ListCompleted(ctx context.Context) ([]domain.CompletedJob, error) {
	jobs, err := q.repo.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar jobs concluídos: %w", err)
	}
	if jobs == nil {
		return []domain.CompletedJob{}, nil
	}
	return jobs, nil
}
