package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// The terminal gateway is stateless except for the settings blob, so every
// deployment knob lives here.
type Config struct {
	// Server (local API consumed by the display layer)
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Remote restaurant-management API
	BackendURL string `mapstructure:"BACKEND_URL"`
	APIToken   string `mapstructure:"API_TOKEN"`
	SSEPath    string `mapstructure:"SSE_PATH"`

	// Terminal identity; shown on receipts and sent with table opens
	TerminalID string `mapstructure:"TERMINAL_ID"`

	// Table list polling
	TablePollSeconds int `mapstructure:"TABLE_POLL_SECONDS"`

	// Redis (job queue + duplicate-submission guard)
	RedisURL       string `mapstructure:"REDIS_URL"`
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// SMTP (emailed receipts)
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// Local artifacts
	ReceiptStoragePath string `mapstructure:"RECEIPT_STORAGE_PATH"`
	ReportStoragePath  string `mapstructure:"REPORT_STORAGE_PATH"`
	SettingsPath       string `mapstructure:"SETTINGS_PATH"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 7070)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("BACKEND_URL", "http://localhost:8080/api")
	viper.SetDefault("SSE_PATH", "/sse/events")
	viper.SetDefault("TERMINAL_ID", "CAJA-01")
	viper.SetDefault("TABLE_POLL_SECONDS", 30)
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("WORKER_POOL_SIZE", 3)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("RECEIPT_STORAGE_PATH", "/tmp/posmorales/receipts")
	viper.SetDefault("REPORT_STORAGE_PATH", "/tmp/posmorales/reports")
	viper.SetDefault("SETTINGS_PATH", "/tmp/posmorales/settings.json")

	// Optional .env file for local development; does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
