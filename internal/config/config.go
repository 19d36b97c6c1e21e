// Package config provides centralized configuration for flashmaint.
// It loads settings from environment variables with defaults and validates
// them on startup so a bad setup fails before any network access.
package config

import "time"

// Backend names the record store implementation selected by Store.Backend.
type Backend string

const (
	BackendPostgres  Backend = "postgres"
	BackendPostgREST Backend = "postgrest"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Store   StoreConfig
	Suggest SuggestConfig
	Audit   AuditConfig
	Logging LoggingConfig
}

// StoreConfig holds record store settings.
type StoreConfig struct {
	// URL is the Supabase project URL, e.g. https://xyz.supabase.co
	URL string `env:"SUPABASE_URL"`

	// Key is the Supabase API key sent as apikey and bearer token
	Key string `env:"SUPABASE_KEY" envAlt:"SUPABASE_SERVICE_ROLE_KEY"`

	// DatabaseURL is a direct PostgreSQL connection string. When set it takes
	// precedence over the REST endpoint.
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Table is the flashcard table name, optionally schema qualified (default: flashcards)
	Table string `env:"STORE_TABLE" default:"flashcards"`

	// Timeout bounds each REST call (default: 30s)
	Timeout time.Duration `env:"STORE_TIMEOUT" default:"30s"`

	// PageSize is rows per REST page when fetching the table (default: 1000)
	PageSize int `env:"STORE_PAGE_SIZE" default:"1000"`

	// MaxConns is the maximum number of pooled connections (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// SuggestConfig holds suggestion service settings.
type SuggestConfig struct {
	// APIKey is the OpenAI API key (required)
	APIKey string `env:"OPENAI_API_KEY" required:"true"`

	// Model is the chat completion model (default: gpt-4o)
	Model string `env:"OPENAI_MODEL" default:"gpt-4o"`

	// Temperature is the sampling temperature (default: 0.3)
	Temperature float64 `env:"OPENAI_TEMPERATURE" default:"0.3"`

	// BaseURL overrides the API root, for proxies and compatible servers
	BaseURL string `env:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`

	// Timeout bounds one completion call (default: 60s)
	Timeout time.Duration `env:"OPENAI_TIMEOUT" default:"60s"`
}

// AuditConfig holds audit phase settings.
type AuditConfig struct {
	// BatchSize is cards per suggestion call (default: 20)
	BatchSize int `env:"AUDIT_BATCH_SIZE" default:"20"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Backend reports which store implementation the settings select.
func (c *StoreConfig) Backend() Backend {
	if c.DatabaseURL != "" {
		return BackendPostgres
	}
	return BackendPostgREST
}
