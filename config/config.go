package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.4"

// DefaultSecretKey is the placeholder shipped in .env.example. Production
// startup is refused while it is still in use.
const DefaultSecretKey = "change-me"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Security    SecurityConfig
	Sending     SendingConfig
	Worker      WorkerConfig
	Connectors  ConnectorsConfig
	Environment string
	APIEndpoint string
	LogLevel    string
	SentryDSN   string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
}

type DatabaseConfig struct {
	// URL takes precedence over the discrete fields when set.
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig points at the counter/idempotency store. BROKER_URL is kept as
// the variable name for compatibility with older deployments.
type RedisConfig struct {
	BrokerURL        string
	ResultBackendURL string
}

type SecurityConfig struct {
	// SecretKey signs admin tokens and idempotency keys.
	SecretKey string
	// AdminToken guards the /api/admin.* endpoints.
	AdminToken string
	CSRFSecret string
	// WebhookSigningSecrets maps a signal source to its HMAC secret.
	WebhookSigningSecrets map[string]string
}

type SendingConfig struct {
	AllowRealSends     bool
	AutoApproveEnabled bool
	ModeDraftOnly      bool
	PerRecipientWeek   int
	GlobalDay          int
	// Warmup ramps the global daily cap from GlobalDay to
	// GlobalDay*WarmupFactor over WarmupDays. Disabled when WarmupDays is 0.
	WarmupDays    int
	WarmupFactor  float64
	WarmupStartAt time.Time
}

type WorkerConfig struct {
	PollInterval          time.Duration
	BatchSize             int
	BackpressureThreshold int
}

// ConnectorsConfig points at the external capability providers. The email
// provider is selected by EMAIL_PROVIDER: "http" (mailbox API), "smtp", or
// "ses".
type ConnectorsConfig struct {
	EmailProvider string
	EmailAPIURL   string
	EmailAPIKey   string

	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPUseTLS    bool
	SMTPFromEmail string
	SMTPFromName  string

	SESRegion    string
	SESAccessKey string
	SESSecretKey string
	SESFromEmail string

	CRMAPIURL string
	CRMAPIKey string

	CalendarAPIURL string
	CalendarAPIKey string
	CalendarIDs    []string

	AssetsAPIURL string
	AssetsAPIKey string

	AnthropicAPIKey string
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "caseyos")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("BROKER_URL", "redis://localhost:6379/0")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	v.SetDefault("SECRET_KEY", DefaultSecretKey)
	v.SetDefault("ALLOW_REAL_SENDS", false)
	v.SetDefault("AUTO_APPROVE_ENABLED", false)
	v.SetDefault("MODE_DRAFT_ONLY", true)
	v.SetDefault("RATE_LIMIT_PER_RECIPIENT_WEEK", 2)
	v.SetDefault("RATE_LIMIT_GLOBAL_DAY", 20)
	v.SetDefault("WARMUP_DAYS", 0)
	v.SetDefault("WARMUP_FACTOR", 1.0)

	v.SetDefault("WORKER_POLL_INTERVAL", "1s")
	v.SetDefault("WORKER_BATCH_SIZE", 10)
	v.SetDefault("BACKPRESSURE_THRESHOLD", 1000)

	v.SetDefault("EMAIL_PROVIDER", "http")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USE_TLS", true)
	v.SetDefault("SES_REGION", "us-east-1")

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	secrets, err := parseWebhookSigningSecrets(v.GetString("WEBHOOK_SIGNING_SECRETS"))
	if err != nil {
		return nil, fmt.Errorf("error parsing WEBHOOK_SIGNING_SECRETS: %w", err)
	}

	pollInterval, err := time.ParseDuration(v.GetString("WORKER_POLL_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("error parsing WORKER_POLL_INTERVAL: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			BrokerURL:        v.GetString("BROKER_URL"),
			ResultBackendURL: v.GetString("RESULT_BACKEND_URL"),
		},
		Security: SecurityConfig{
			SecretKey:             v.GetString("SECRET_KEY"),
			AdminToken:            v.GetString("ADMIN_TOKEN"),
			CSRFSecret:            v.GetString("CSRF_SECRET"),
			WebhookSigningSecrets: secrets,
		},
		Sending: SendingConfig{
			AllowRealSends:     v.GetBool("ALLOW_REAL_SENDS"),
			AutoApproveEnabled: v.GetBool("AUTO_APPROVE_ENABLED"),
			ModeDraftOnly:      v.GetBool("MODE_DRAFT_ONLY"),
			PerRecipientWeek:   v.GetInt("RATE_LIMIT_PER_RECIPIENT_WEEK"),
			GlobalDay:          v.GetInt("RATE_LIMIT_GLOBAL_DAY"),
			WarmupDays:         v.GetInt("WARMUP_DAYS"),
			WarmupFactor:       v.GetFloat64("WARMUP_FACTOR"),
			WarmupStartAt:      v.GetTime("WARMUP_START_AT"),
		},
		Worker: WorkerConfig{
			PollInterval:          pollInterval,
			BatchSize:             v.GetInt("WORKER_BATCH_SIZE"),
			BackpressureThreshold: v.GetInt("BACKPRESSURE_THRESHOLD"),
		},
		Connectors: ConnectorsConfig{
			EmailProvider: v.GetString("EMAIL_PROVIDER"),
			EmailAPIURL:   v.GetString("EMAIL_API_URL"),
			EmailAPIKey:   v.GetString("EMAIL_API_KEY"),

			SMTPHost:      v.GetString("SMTP_HOST"),
			SMTPPort:      v.GetInt("SMTP_PORT"),
			SMTPUsername:  v.GetString("SMTP_USERNAME"),
			SMTPPassword:  v.GetString("SMTP_PASSWORD"),
			SMTPUseTLS:    v.GetBool("SMTP_USE_TLS"),
			SMTPFromEmail: v.GetString("SMTP_FROM_EMAIL"),
			SMTPFromName:  v.GetString("SMTP_FROM_NAME"),

			SESRegion:    v.GetString("SES_REGION"),
			SESAccessKey: v.GetString("SES_ACCESS_KEY"),
			SESSecretKey: v.GetString("SES_SECRET_KEY"),
			SESFromEmail: v.GetString("SES_FROM_EMAIL"),

			CRMAPIURL: v.GetString("CRM_API_URL"),
			CRMAPIKey: v.GetString("CRM_API_KEY"),

			CalendarAPIURL: v.GetString("CALENDAR_API_URL"),
			CalendarAPIKey: v.GetString("CALENDAR_API_KEY"),
			CalendarIDs:    splitList(v.GetString("CALENDAR_IDS")),

			AssetsAPIURL: v.GetString("ASSETS_API_URL"),
			AssetsAPIKey: v.GetString("ASSETS_API_KEY"),

			AnthropicAPIKey: v.GetString("ANTHROPIC_API_KEY"),
		},
		Environment: v.GetString("ENVIRONMENT"),
		APIEndpoint: v.GetString("API_ENDPOINT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		SentryDSN:   v.GetString("SENTRY_DSN"),
		Version:     v.GetString("VERSION"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate enforces the production startup guards: the default SECRET_KEY is
// refused, and real sends require both a secret key and an admin token.
func (c *Config) validate() error {
	if c.IsProduction() && c.Security.SecretKey == DefaultSecretKey {
		return fmt.Errorf("SECRET_KEY must be changed from its default in production")
	}

	if c.Sending.AllowRealSends {
		if c.Security.SecretKey == "" || c.Security.SecretKey == DefaultSecretKey {
			return fmt.Errorf("ALLOW_REAL_SENDS requires a non-default SECRET_KEY")
		}
		if c.Security.AdminToken == "" {
			return fmt.Errorf("ALLOW_REAL_SENDS requires ADMIN_TOKEN to be set")
		}
	}

	return nil
}

// parseWebhookSigningSecrets accepts either a JSON object
// {"form":"s1","crm":"s2"} or a comma list form:s1,crm:s2.
func parseWebhookSigningSecrets(raw string) (map[string]string, error) {
	secrets := make(map[string]string)
	if raw == "" {
		return secrets, nil
	}

	if strings.HasPrefix(strings.TrimSpace(raw), "{") {
		if err := json.Unmarshal([]byte(raw), &secrets); err != nil {
			return nil, err
		}
		return secrets, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid source:secret pair %q", pair)
		}
		secrets[parts[0]] = parts[1]
	}
	return secrets, nil
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
