package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/internal/config"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/queueing"
)

// Drainer é a fila drenada pelo agendador
type Drainer interface {
	Drain(ctx context.Context, process queueing.ProcessFunc) (queueing.DrainResult, error)
	IsProcessing() bool
}

// JobQueueDrainConfig representa a configuração do agendador de drain da fila
type JobQueueDrainConfig struct {
	CronSchedule string
	DrainEnabled bool
}

// JobQueueDrainService agenda o processamento periódico da fila de jobs de adset
type JobQueueDrainService struct {
	scheduler *gocron.Scheduler
	config    JobQueueDrainConfig
	queue     Drainer
	process   queueing.ProcessFunc
	baseCtx   context.Context

	statusMutex          sync.Mutex
	lastDrainStartedAt   time.Time
	lastDrainCompletedAt time.Time
	lastResult           queueing.DrainResult
	lastError            string
}

func NewJobQueueDrainService(queue Drainer, process queueing.ProcessFunc, appConfig *config.Config) *JobQueueDrainService {
	drainConfig := JobQueueDrainConfig{
		CronSchedule: appConfig.JobQueue.CronSchedule,
		DrainEnabled: appConfig.JobQueue.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": drainConfig.CronSchedule,
		"drain_enabled": drainConfig.DrainEnabled,
	}).Info("Configuração do agendador da fila de jobs carregada")

	return &JobQueueDrainService{
		scheduler: gocron.NewScheduler(time.UTC),
		config:    drainConfig,
		queue:     queue,
		process:   process,
		baseCtx:   context.Background(),
	}
}

// Start inicia o agendador. O contexto também é repassado aos drains para parar entre jobs no desligamento.
func (s *JobQueueDrainService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if !s.config.DrainEnabled {
		logrus.Info("Drain agendado da fila de jobs desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador da fila de jobs")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.drainQueue()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar drain da fila de jobs: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador da fila de jobs")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *JobQueueDrainService) drainQueue() {
	startTime := time.Now()

	result, err := s.queue.Drain(s.baseCtx, s.process)
	if result.Skipped {
		return
	}

	s.statusMutex.Lock()
	s.lastDrainStartedAt = startTime
	s.lastDrainCompletedAt = time.Now()
	s.lastResult = result
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.statusMutex.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Drain da fila de jobs interrompido")
		return
	}

	if result.Processed > 0 {
		logrus.WithFields(logrus.Fields{
			"duration":  time.Since(startTime).String(),
			"processed": result.Processed,
			"failed":    result.Failed,
		}).Info("Drain agendado da fila de jobs concluído")
	}
}

// TriggerManualSync dispara um drain em background. Retorna false se já houver um em andamento.
func (s *JobQueueDrainService) TriggerManualSync() bool {
	if s.queue.IsProcessing() {
		logrus.Info("Drain da fila de jobs já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando drain manual da fila de jobs")
	go s.drainQueue()
	return true
}

// GetStatus retorna o status atual do agendador
func (s *JobQueueDrainService) GetStatus() map[string]any {
	s.statusMutex.Lock()
	defer s.statusMutex.Unlock()

	return map[string]any{
		"drain_enabled":           s.config.DrainEnabled,
		"drain_cron":              s.config.CronSchedule,
		"drain_running":           s.queue.IsProcessing(),
		"last_drain_started_at":   s.lastDrainStartedAt,
		"last_drain_completed_at": s.lastDrainCompletedAt,
		"last_drain_result":       s.lastResult,
		"last_drain_error":        s.lastError,
	}
}
