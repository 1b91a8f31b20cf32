// Package config handles loading and validation of application configuration
// from environment variables and optional configuration files.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/section3-pro/compliance-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"

	// MinSecretLength is the minimum length of the signing secret and the encryption key.
	MinSecretLength = 32
)

// Storage providers accepted by STORAGE_PROVIDER.
const (
	StorageProviderSupabase = "supabase"
	StorageProviderS3       = "s3"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
}

// SupabaseConfig holds the hosted data store credentials.
type SupabaseConfig struct {
	URL        string `mapstructure:"URL" yaml:"url"`
	AnonKey    string `mapstructure:"ANON_KEY" yaml:"anon_key"`
	ServiceKey string `mapstructure:"SERVICE_KEY" yaml:"service_key"`
	// HealthTable is the table read by the database probe.
	HealthTable string `mapstructure:"HEALTH_TABLE" yaml:"health_table"`
}

// DatabaseConfig holds an optional direct PostgreSQL connection.
type DatabaseConfig struct {
	URL          string `mapstructure:"URL" yaml:"url"`
	MaxConns     int32  `mapstructure:"MAX_CONNS" yaml:"max_conns"`
	AutoMigrate  bool   `mapstructure:"AUTO_MIGRATE" yaml:"auto_migrate"`
	ConnMaxLife  string `mapstructure:"CONN_MAX_LIFE" yaml:"conn_max_life"`
	QueryTimeout int    `mapstructure:"QUERY_TIMEOUT_SECONDS" yaml:"query_timeout_seconds"`
}

// AIConfig holds the OpenAI-compatible provider settings.
type AIConfig struct {
	APIKey  string `mapstructure:"API_KEY" yaml:"api_key"`
	BaseURL string `mapstructure:"BASE_URL" yaml:"base_url"`
}

// SecurityConfig holds the signing secret and the symmetric encryption key.
type SecurityConfig struct {
	JWTSecret     string `mapstructure:"JWT_SECRET" yaml:"jwt_secret"`
	EncryptionKey string `mapstructure:"ENCRYPTION_KEY" yaml:"encryption_key"`
}

// EmailConfig holds outbound email credentials. Either SMTP or Resend is enough.
type EmailConfig struct {
	SMTPHost     string `mapstructure:"SMTP_HOST" yaml:"smtp_host"`
	SMTPUser     string `mapstructure:"SMTP_USER" yaml:"smtp_user"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD" yaml:"smtp_password"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
	FromAddress  string `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
}

// SMSConfig holds Twilio credentials.
type SMSConfig struct {
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID" yaml:"twilio_account_sid"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN" yaml:"twilio_auth_token"`
}

// NotificationConfig holds chat notification settings.
type NotificationConfig struct {
	SlackWebhookURL string `mapstructure:"SLACK_WEBHOOK_URL" yaml:"slack_webhook_url"`
}

// StorageConfig selects and configures the document storage backend.
type StorageConfig struct {
	Provider        string `mapstructure:"PROVIDER" yaml:"provider"`
	Bucket          string `mapstructure:"BUCKET" yaml:"bucket"`
	Endpoint        string `mapstructure:"ENDPOINT" yaml:"endpoint"`
	Region          string `mapstructure:"REGION" yaml:"region"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
	UseTLS   bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
}

// HealthConfig holds probe deadlines and latency budgets, in milliseconds
// unless the name says otherwise.
type HealthConfig struct {
	TimeoutSeconds          int `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
	DatabaseLatencyBudgetMS int `mapstructure:"DATABASE_LATENCY_BUDGET_MS" yaml:"database_latency_budget_ms"`
	StorageLatencyBudgetMS  int `mapstructure:"STORAGE_LATENCY_BUDGET_MS" yaml:"storage_latency_budget_ms"`
	AILatencyBudgetMS       int `mapstructure:"AI_LATENCY_BUDGET_MS" yaml:"ai_latency_budget_ms"`
	AITimeoutMS             int `mapstructure:"AI_TIMEOUT_MS" yaml:"ai_timeout_ms"`
}

// Timeout is the shared deadline of one aggregation.
func (h HealthConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// DatabaseBudget is the latency above which the database is reported degraded.
func (h HealthConfig) DatabaseBudget() time.Duration {
	return time.Duration(h.DatabaseLatencyBudgetMS) * time.Millisecond
}

// StorageBudget is the latency above which storage is reported degraded.
func (h HealthConfig) StorageBudget() time.Duration {
	return time.Duration(h.StorageLatencyBudgetMS) * time.Millisecond
}

// AIBudget is the latency above which the AI provider is reported degraded.
func (h HealthConfig) AIBudget() time.Duration {
	return time.Duration(h.AILatencyBudgetMS) * time.Millisecond
}

// AITimeout is the hard timeout of the AI provider request.
func (h HealthConfig) AITimeout() time.Duration {
	return time.Duration(h.AITimeoutMS) * time.Millisecond
}

// Config aggregates all application configuration sections. A loaded Config is
// treated as an immutable snapshot and passed explicitly to probes and checks.
type Config struct {
	Server       ServerConfig       `mapstructure:"SERVER" yaml:"server"`
	Supabase     SupabaseConfig     `mapstructure:"SUPABASE" yaml:"supabase"`
	Database     DatabaseConfig     `mapstructure:"DATABASE" yaml:"database"`
	AI           AIConfig           `mapstructure:"AI" yaml:"ai"`
	Security     SecurityConfig     `mapstructure:"SECURITY" yaml:"security"`
	Email        EmailConfig        `mapstructure:"EMAIL" yaml:"email"`
	SMS          SMSConfig          `mapstructure:"SMS" yaml:"sms"`
	Notification NotificationConfig `mapstructure:"NOTIFICATION" yaml:"notification"`
	Storage      StorageConfig      `mapstructure:"STORAGE" yaml:"storage"`
	Redis        RedisConfig        `mapstructure:"REDIS" yaml:"redis"`
	Health       HealthConfig       `mapstructure:"HEALTH" yaml:"health"`
}

// IsProduction returns true if the application is running in production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// SupabaseConfigured reports whether the hosted data store can be reached over REST.
func (c *Config) SupabaseConfigured() bool {
	return c.Supabase.URL != "" && c.Supabase.AnonKey != ""
}

// DatabaseConfigured reports whether any primary data store is configured.
// Without one the system runs in demo mode.
func (c *Config) DatabaseConfigured() bool {
	return c.Database.URL != "" || c.SupabaseConfigured()
}

// SMTPConfigured reports whether all SMTP credentials are present.
func (c *Config) SMTPConfigured() bool {
	return c.Email.SMTPHost != "" && c.Email.SMTPUser != "" && c.Email.SMTPPassword != ""
}

// EmailConfigured reports whether any outbound email channel is configured.
func (c *Config) EmailConfigured() bool {
	return c.SMTPConfigured() || c.Email.ResendAPIKey != ""
}

// SMSConfigured reports whether the Twilio credentials are present.
func (c *Config) SMSConfigured() bool {
	return c.SMS.TwilioAccountSID != "" && c.SMS.TwilioAuthToken != ""
}

// StorageConfigured reports whether the selected storage provider has what it needs.
func (c *Config) StorageConfigured() bool {
	switch c.Storage.Provider {
	case StorageProviderS3:
		return c.Storage.Bucket != "" && c.Storage.Region != ""
	default:
		return c.Supabase.URL != "" && c.Supabase.ServiceKey != ""
	}
}

// Review lists configuration problems without failing. Errors name settings the
// product needs to run outside demo mode; warnings name optional integrations.
func (c *Config) Review() (warnings []string, errs []string) {
	if !c.DatabaseConfigured() {
		warnings = append(warnings, "No database configured; running in demo mode with sample data")
	}
	if c.Supabase.URL != "" && !IsSecureURL(c.Supabase.URL) {
		errs = append(errs, "SUPABASE_URL must be an https:// endpoint")
	}
	if c.Supabase.URL != "" && c.Supabase.AnonKey == "" {
		errs = append(errs, "SUPABASE_ANON_KEY is required when SUPABASE_URL is set")
	}
	if c.Security.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is not configured")
	} else if len(c.Security.JWTSecret) < MinSecretLength {
		errs = append(errs, fmt.Sprintf("JWT_SECRET must be at least %d characters", MinSecretLength))
	}
	if c.Security.EncryptionKey == "" {
		errs = append(errs, "ENCRYPTION_KEY is not configured")
	} else if len(c.Security.EncryptionKey) < MinSecretLength {
		errs = append(errs, fmt.Sprintf("ENCRYPTION_KEY must be at least %d characters", MinSecretLength))
	}
	if c.AI.APIKey == "" {
		warnings = append(warnings, "OPENAI_API_KEY is not configured; AI features are disabled")
	}
	if !c.EmailConfigured() {
		warnings = append(warnings, "Email is not configured; notifications will not be sent")
	}
	if !c.SMSConfigured() {
		warnings = append(warnings, "SMS is not configured")
	}
	if !c.StorageConfigured() {
		warnings = append(warnings, "Document storage is not configured")
	}
	return warnings, errs
}

// IsSecureURL reports whether raw is an absolute https:// URL with a host.
func IsSecureURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host != ""
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

var envBindings = [][2]string{
	// Server config
	{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
	{"SERVER.PORT", "PORT"},
	{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
	{"SERVER.VERSION", "VERSION"},
	// Supabase
	{"SUPABASE.URL", "SUPABASE_URL"},
	{"SUPABASE.ANON_KEY", "SUPABASE_ANON_KEY"},
	{"SUPABASE.SERVICE_KEY", "SUPABASE_SERVICE_ROLE_KEY"},
	{"SUPABASE.HEALTH_TABLE", "SUPABASE_HEALTH_TABLE"},
	// Direct database
	{"DATABASE.URL", "DATABASE_URL"},
	{"DATABASE.MAX_CONNS", "DATABASE_MAX_CONNS"},
	{"DATABASE.AUTO_MIGRATE", "DATABASE_AUTO_MIGRATE"},
	{"DATABASE.CONN_MAX_LIFE", "DATABASE_CONN_MAX_LIFE"},
	{"DATABASE.QUERY_TIMEOUT_SECONDS", "DATABASE_QUERY_TIMEOUT_SECONDS"},
	// AI provider
	{"AI.API_KEY", "OPENAI_API_KEY"},
	{"AI.BASE_URL", "OPENAI_BASE_URL"},
	// Security
	{"SECURITY.JWT_SECRET", "JWT_SECRET"},
	{"SECURITY.ENCRYPTION_KEY", "ENCRYPTION_KEY"},
	// Email
	{"EMAIL.SMTP_HOST", "SMTP_HOST"},
	{"EMAIL.SMTP_USER", "SMTP_USER"},
	{"EMAIL.SMTP_PASSWORD", "SMTP_PASSWORD"},
	{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
	{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
	// SMS
	{"SMS.TWILIO_ACCOUNT_SID", "TWILIO_ACCOUNT_SID"},
	{"SMS.TWILIO_AUTH_TOKEN", "TWILIO_AUTH_TOKEN"},
	// Notifications
	{"NOTIFICATION.SLACK_WEBHOOK_URL", "SLACK_WEBHOOK_URL"},
	// Storage
	{"STORAGE.PROVIDER", "STORAGE_PROVIDER"},
	{"STORAGE.BUCKET", "STORAGE_BUCKET"},
	{"STORAGE.ENDPOINT", "S3_ENDPOINT"},
	{"STORAGE.REGION", "S3_REGION"},
	{"STORAGE.ACCESS_KEY_ID", "S3_ACCESS_KEY_ID"},
	{"STORAGE.SECRET_ACCESS_KEY", "S3_SECRET_ACCESS_KEY"},
	// Redis
	{"REDIS.ADDRESS", "REDIS_ADDRESS"},
	{"REDIS.PASSWORD", "REDIS_PASSWORD"},
	{"REDIS.DB", "REDIS_DB"},
	{"REDIS.USE_TLS", "REDIS_USE_TLS"},
	// Health
	{"HEALTH.TIMEOUT_SECONDS", "HEALTH_TIMEOUT_SECONDS"},
	{"HEALTH.DATABASE_LATENCY_BUDGET_MS", "HEALTH_DATABASE_LATENCY_BUDGET_MS"},
	{"HEALTH.STORAGE_LATENCY_BUDGET_MS", "HEALTH_STORAGE_LATENCY_BUDGET_MS"},
	{"HEALTH.AI_LATENCY_BUDGET_MS", "HEALTH_AI_LATENCY_BUDGET_MS"},
	{"HEALTH.AI_TIMEOUT_MS", "HEALTH_AI_TIMEOUT_MS"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SUPABASE.HEALTH_TABLE", "projects")
	v.SetDefault("DATABASE.MAX_CONNS", 5)
	v.SetDefault("DATABASE.AUTO_MIGRATE", false)
	v.SetDefault("DATABASE.CONN_MAX_LIFE", "1h")
	v.SetDefault("DATABASE.QUERY_TIMEOUT_SECONDS", 5)
	v.SetDefault("AI.BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("STORAGE.PROVIDER", StorageProviderSupabase)
	v.SetDefault("STORAGE.BUCKET", "compliance-documents")
	v.SetDefault("STORAGE.REGION", "auto")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("HEALTH.TIMEOUT_SECONDS", 10)
	v.SetDefault("HEALTH.DATABASE_LATENCY_BUDGET_MS", 1000)
	v.SetDefault("HEALTH.STORAGE_LATENCY_BUDGET_MS", 1000)
	v.SetDefault("HEALTH.AI_LATENCY_BUDGET_MS", 2000)
	v.SetDefault("HEALTH.AI_TIMEOUT_MS", 5000)
}

// LoadConfig loads configuration from environment variables using Viper,
// unmarshals it and validates its structure. Missing credentials are not an
// error here: the prerequisite validator reports them and the service runs in
// demo mode.
func LoadConfig() (*Config, error) {
	v := viper.New()
	return load(v)
}

// Defaults returns a Config holding only the built-in defaults, ignoring the
// environment.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("default config does not unmarshal: %v", err))
	}
	return &cfg
}

// LoadConfigFromFile reads a YAML or .env file first and lets environment
// variables override it.
func LoadConfigFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	log := logger.GetLogger()

	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	cfg.Storage.Provider = strings.ToLower(strings.TrimSpace(cfg.Storage.Provider))

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded", logFields(&cfg)...)
	return &cfg, nil
}

// logFields are the settings logged at startup, with credentials masked.
func logFields(cfg *Config) []interface{} {
	return []interface{}{
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"supabase_url", cfg.Supabase.URL,
		"supabase_anon_key", logger.MaskSecret(cfg.Supabase.AnonKey),
		"supabase_service_key", logger.MaskSecret(cfg.Supabase.ServiceKey),
		"ai_api_key", logger.MaskSecret(cfg.AI.APIKey),
		"resend_api_key", logger.MaskSecret(cfg.Email.ResendAPIKey),
		"database_url", logger.MaskConnectionString(cfg.Database.URL),
		"storage_provider", cfg.Storage.Provider,
		"redis_address", cfg.Redis.Address,
	}
}

// validateConfig checks structural settings only.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	switch cfg.Server.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", cfg.Server.Environment)
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}
	switch cfg.Storage.Provider {
	case StorageProviderSupabase, StorageProviderS3:
	default:
		return fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
	if cfg.Health.TimeoutSeconds <= 0 {
		return fmt.Errorf("health timeout must be positive")
	}
	if cfg.Health.DatabaseLatencyBudgetMS <= 0 || cfg.Health.StorageLatencyBudgetMS <= 0 || cfg.Health.AILatencyBudgetMS <= 0 {
		return fmt.Errorf("health latency budgets must be positive")
	}
	if cfg.Health.AITimeoutMS <= 0 {
		return fmt.Errorf("AI probe timeout must be positive")
	}
	if cfg.Database.QueryTimeout <= 0 {
		return fmt.Errorf("database query timeout must be positive")
	}
	if _, err := time.ParseDuration(cfg.Database.ConnMaxLife); err != nil {
		return fmt.Errorf("invalid database connection max life: %w", err)
	}
	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
