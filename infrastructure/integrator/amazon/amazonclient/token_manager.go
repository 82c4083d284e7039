package amazonclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-manager-api/internal/config"
	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

const refreshInterval = 50 * time.Minute

// TokenManager gerencia o access token da API de anúncios da Amazon
type TokenManager struct {
	cfg         *config.Config
	httpClient  *http.Client
	secrets     config.SecretStorage
	mu          sync.Mutex
	stopRefresh chan struct{}
	now         func() time.Time
}

func NewTokenManager(cfg *config.Config, secrets config.SecretStorage) *TokenManager {
	return &TokenManager{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		secrets:     secrets,
		stopRefresh: make(chan struct{}),
		now:         time.Now,
	}
}

// Credentials devolve as credenciais atuais, renovando o token se estiver perto de expirar
func (tm *TokenManager) Credentials(ctx context.Context) (domain.PlatformCredentials, error) {
	if err := tm.EnsureValidToken(ctx); err != nil {
		return domain.PlatformCredentials{}, err
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	return domain.PlatformCredentials{
		ClientID:    tm.cfg.Amazon.ClientID,
		AccessToken: tm.cfg.Amazon.AccessToken,
	}, nil
}

// EnsureValidToken verifica se o token atual é válido e tenta renová-lo se necessário
func (tm *TokenManager) EnsureValidToken(ctx context.Context) error {
	tm.mu.Lock()
	token := tm.cfg.Amazon.AccessToken
	expiresAt := tm.cfg.Amazon.TokenExpiresAt
	tm.mu.Unlock()

	if token == "" {
		logrus.Info("Token da Amazon não inicializado. Inicializando...")
		return tm.RefreshToken(ctx)
	}

	// token vindo do ambiente sem expiração conhecida é usado até a API recusar
	if !expiresAt.IsZero() && tm.now().After(expiresAt) {
		logrus.Info("Token da Amazon expirado. Renovando...")
		return tm.RefreshToken(ctx)
	}

	return nil
}

// RefreshToken obtém um novo access token e persiste no Render quando configurado
func (tm *TokenManager) RefreshToken(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tokenResponse, err := RefreshAccessToken(
		ctx,
		tm.httpClient,
		tm.cfg.Amazon.TokenURL,
		tm.cfg.Amazon.ClientID,
		tm.cfg.Amazon.ClientSecret,
		tm.cfg.Amazon.RefreshToken,
	)
	if err != nil {
		return fmt.Errorf("erro ao obter novo token da Amazon: %w", err)
	}

	tm.cfg.Amazon.AccessToken = tokenResponse.AccessToken
	tm.cfg.Amazon.TokenExpiresAt = CalculateTokenExpiration(tm.now(), tokenResponse.ExpiresIn)
	if tokenResponse.RefreshToken != "" {
		tm.cfg.Amazon.RefreshToken = tokenResponse.RefreshToken
	}

	tm.persist()

	logrus.Infof("Token da Amazon renovado com sucesso. Expira em: %s",
		tm.cfg.Amazon.TokenExpiresAt.Format(time.RFC3339))

	return nil
}

func (tm *TokenManager) persist() {
	if tm.secrets == nil || tm.cfg.Render.ServiceID == "" {
		return
	}

	if err := tm.secrets.AddOrUpdateSecret(tm.cfg.Render.ServiceID, config.AmazonAccessTokenSecret, tm.cfg.Amazon.AccessToken); err != nil {
		logrus.WithError(err).Error("Erro ao salvar token da Amazon no Render")
	}
	if err := tm.secrets.AddOrUpdateSecret(tm.cfg.Render.ServiceID, config.AmazonRefreshTokenSecret, tm.cfg.Amazon.RefreshToken); err != nil {
		logrus.WithError(err).Error("Erro ao salvar refresh token da Amazon no Render")
	}
}

// StartAutoRefresh renova o token periodicamente até ctx ser cancelado ou StopAutoRefresh ser chamado
func (tm *TokenManager) StartAutoRefresh(ctx context.Context) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logrus.Info("Iniciando renovação periódica do token da Amazon")
			if err := tm.RefreshToken(ctx); err != nil {
				logrus.Errorf("Erro na renovação periódica do token: %v", err)
				ticker.Reset(5 * time.Minute)
				continue
			}
			ticker.Reset(refreshInterval)
		case <-tm.stopRefresh:
			logrus.Info("Encerrando goroutine de renovação periódica do token")
			return
		case <-ctx.Done():
			return
		}
	}
}

func (tm *TokenManager) StopAutoRefresh() {
	close(tm.stopRefresh)
}
