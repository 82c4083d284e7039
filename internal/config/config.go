package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	Amazon       Amazon       `mapstructure:",squash"`
	Render       Render       `mapstructure:",squash"`
	JobQueue     JobQueue     `mapstructure:",squash"`
	Notification Notification `mapstructure:",squash"`
	Migration    Migration    `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Amazon struct {
	BaseURL        string        `mapstructure:"amazon_base_url"`
	TokenURL       string        `mapstructure:"amazon_token_url"`
	ClientID       string        `mapstructure:"amazon_client_id"`
	ClientSecret   string        `mapstructure:"amazon_client_secret"`
	RefreshToken   string        `mapstructure:"amazon_refresh_token"`
	AccessToken    string        `mapstructure:"amazon_access_token"`
	RequestTimeout time.Duration `mapstructure:"amazon_request_timeout"`
	TokenExpiresAt time.Time     `mapstructure:"-"`
}

type Render struct {
	APIKey    string `mapstructure:"render_api_key"`
	ServiceID string `mapstructure:"render_service_id"`
}

type JobQueue struct {
	CronSchedule string `mapstructure:"job_queue_drain_cron"`
	Enabled      bool   `mapstructure:"job_queue_drain_enabled"`
}

type Notification struct {
	SMTPHost   string   `mapstructure:"notification_smtp_host"`
	SMTPPort   int      `mapstructure:"notification_smtp_port"`
	Username   string   `mapstructure:"notification_smtp_username"`
	Password   string   `mapstructure:"notification_smtp_password"`
	From       string   `mapstructure:"notification_from"`
	Recipients []string `mapstructure:"notification_recipients"`
}

// Enabled indica se há SMTP configurado para envio de e-mails
func (n Notification) Enabled() bool {
	return n.SMTPHost != "" && len(n.Recipients) > 0
}

type Migration struct {
	Enabled      bool `mapstructure:"migration_enabled"`
	Version      uint `mapstructure:"migration_version"`
	Force        int  `mapstructure:"migration_force"`
	AutoRollback bool `mapstructure:"migration_auto_rollback"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/campaigns?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)

	viper.SetDefault("AUTH_SECRET", "")

	viper.SetDefault("AMAZON_BASE_URL", "https://advertising-api.amazon.com")
	viper.SetDefault("AMAZON_TOKEN_URL", "https://api.amazon.com/auth/o2/token")
	viper.SetDefault("AMAZON_CLIENT_ID", "")
	viper.SetDefault("AMAZON_CLIENT_SECRET", "")
	viper.SetDefault("AMAZON_REFRESH_TOKEN", "")
	viper.SetDefault("AMAZON_ACCESS_TOKEN", "") // ONLY LOCAL
	viper.SetDefault("AMAZON_REQUEST_TIMEOUT", "30s")

	viper.SetDefault("RENDER_API_KEY", "")
	viper.SetDefault("RENDER_SERVICE_ID", "")

	viper.SetDefault("JOB_QUEUE_DRAIN_CRON", "*/1 * * * *") // A cada minuto
	viper.SetDefault("JOB_QUEUE_DRAIN_ENABLED", true)

	viper.SetDefault("NOTIFICATION_SMTP_HOST", "")
	viper.SetDefault("NOTIFICATION_SMTP_PORT", 587)
	viper.SetDefault("NOTIFICATION_FROM", "no-reply@campaign-manager.local")
	viper.SetDefault("NOTIFICATION_RECIPIENTS", "")

	viper.SetDefault("MIGRATION_ENABLED", true)
	viper.SetDefault("MIGRATION_VERSION", 0)
	viper.SetDefault("MIGRATION_FORCE", 0)
	viper.SetDefault("MIGRATION_AUTO_ROLLBACK", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Render.ServiceID != "" {
		secrets, err := NewRenderClient(config).ListSecrets(config.Render.ServiceID)
		if err != nil {
			logrus.Error("Erro ao obter secrets do Render:", err)
			return nil, err
		}
		applySecrets(config, secrets)
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// applySecrets só preenche o que não veio das variáveis de ambiente
func applySecrets(config *Config, secrets map[string]string) {
	if token, ok := secrets[AmazonAccessTokenSecret]; ok && config.Amazon.AccessToken == "" {
		config.Amazon.AccessToken = token
	}
	if token, ok := secrets[AmazonRefreshTokenSecret]; ok && token != "" {
		config.Amazon.RefreshToken = token
	}
	if secret, ok := secrets["auth_secret"]; ok && config.Auth.Secret == "" {
		config.Auth.Secret = secret
	}
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
