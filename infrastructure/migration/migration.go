package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/internal/config"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

type migrationLogger struct {
	logger *logrus.Entry
}

func (l migrationLogger) Verbose() bool {
	return l.logger.Logger.IsLevelEnabled(logrus.DebugLevel)
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.logger.Infof(strings.TrimSuffix(format, "\n"), v...)
}

type Service struct {
	cfg    config.Migration
	logger *logrus.Entry
}

func NewService(cfg config.Migration) *Service {
	return &Service{
		cfg:    cfg,
		logger: logrus.WithField("component", "migration"),
	}
}

// Up aplica as migrações embutidas no binário até a versão configurada (ou a mais recente)
func (s *Service) Up(db *sql.DB) error {
	source, err := iofs.New(migrationFiles, "sql")
	if err != nil {
		return fmt.Errorf("erro ao abrir migrações embutidas: %w", err)
	}

	driver, err := migratepostgres.WithInstance(db, &migratepostgres.Config{})
	if err != nil {
		return fmt.Errorf("erro ao criar driver de migração: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("erro ao criar instância de migração: %w", err)
	}
	m.Log = migrationLogger{logger: s.logger}

	if s.cfg.Force != 0 {
		if err := m.Force(s.cfg.Force); err != nil {
			return fmt.Errorf("erro ao forçar versão %d: %w", s.cfg.Force, err)
		}
	}

	previous, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		s.logger.WithError(err).Warn("Não foi possível obter a versão atual das migrações")
	}

	start := time.Now()
	if s.cfg.Version != 0 {
		err = m.Migrate(s.cfg.Version)
	} else {
		err = m.Up()
	}

	return s.handleResult(m, err, previous, time.Since(start))
}

func (s *Service) handleResult(m *migrate.Migrate, err error, previous uint, elapsed time.Duration) error {
	if err == nil {
		s.logger.WithField("elapsed", elapsed).Info("Migrações aplicadas com sucesso")
		return nil
	}

	if errors.Is(err, migrate.ErrNoChange) {
		s.logger.Info("Nenhuma migração nova para aplicar")
		return nil
	}

	version, dirty, versionErr := m.Version()
	if versionErr != nil && !errors.Is(versionErr, migrate.ErrNilVersion) {
		s.logger.WithError(versionErr).Error("Falha ao obter versão após erro de migração")
		return err
	}

	if dirty && s.cfg.AutoRollback {
		s.logger.Warnf("Banco sujo na versão %d, voltando para a versão %d", version, previous)
		if forceErr := m.Force(int(previous)); forceErr != nil {
			s.logger.WithError(forceErr).Errorf("Falha ao forçar versão %d", previous)
		}
	}

	// o erro original sempre sobe para impedir a aplicação de subir com o schema incompleto
	return fmt.Errorf("erro ao aplicar migrações (versão %d, dirty=%t): %w", version, dirty, err)
}
