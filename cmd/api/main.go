package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-manager-api/infrastructure/integrator/amazon"
	"github.com/vfg2006/campaign-manager-api/infrastructure/integrator/amazon/amazonclient"
	"github.com/vfg2006/campaign-manager-api/infrastructure/migration"
	"github.com/vfg2006/campaign-manager-api/infrastructure/repository"
	"github.com/vfg2006/campaign-manager-api/internal/api"
	"github.com/vfg2006/campaign-manager-api/internal/config"
	"github.com/vfg2006/campaign-manager-api/internal/scheduler"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/budgeting"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/notifying"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/orchestrating"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/queueing"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/reconciling"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if cfg.Migration.Enabled {
		if err := migration.NewService(cfg.Migration).Up(pgConn.DB); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar migrações")
		}
	}

	jobRepo := repository.NewJobRepository(pgConn)
	budgetRepo := repository.NewBudgetRepository(pgConn)
	campaignGroupRepo := repository.NewCampaignGroupRepository(pgConn)

	tokenValidator := authenticating.NewService(cfg.Auth)

	renderClient := config.NewRenderClient(cfg)

	tokenManager := amazonclient.NewTokenManager(cfg, renderClient)
	go tokenManager.StartAutoRefresh(ctx)
	defer tokenManager.StopAutoRefresh()

	amazonClient := amazonclient.NewClient(cfg)
	amazonIntegrator := amazon.New(amazonClient, tokenManager)

	// Fila persistente: o fim de cada lote dispara o resumo por e-mail
	notifier := notifying.NewNotifier(cfg.Notification, jobRepo)
	jobQueue := queueing.NewQueue(jobRepo, notifier.BatchCompleted)

	reconciler := reconciling.NewReconciler(amazonIntegrator, campaignGroupRepo, budgetRepo)

	budgetService := budgeting.NewService(campaignGroupRepo, budgetRepo, jobQueue)
	launcher := orchestrating.NewService(amazonIntegrator, jobQueue, campaignGroupRepo, budgetRepo)

	jobQueueDrainService := scheduler.NewJobQueueDrainService(jobQueue, reconciler.Reconcile, cfg)

	if err := jobQueueDrainService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador da fila de jobs")
	} else {
		logrus.Info("Agendador da fila de jobs iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		budgetService,
		launcher,
		jobQueue,
		tokenValidator,
		jobQueueDrainService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
