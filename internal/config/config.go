// Package config manages application configuration from config.yaml,
// WW_* environment variables, and default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the full application configuration. All values can be set in
// config.yaml or overridden with environment variables prefixed with WW_
// (e.g. WW_LLM_API_KEY).
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Market   MarketConfig   `mapstructure:"market"`
	Database DatabaseConfig `mapstructure:"database"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Advisor  AdvisorConfig  `mapstructure:"advisor"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"             validate:"required"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"  validate:"min=1,dive,required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s,max=1m"`
}

// LoggerConfig controls log verbosity and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// LLMConfig holds completion-provider settings. APIKey has no default:
// startup fails when it is absent.
type LLMConfig struct {
	Backend         string        `mapstructure:"backend"          validate:"oneof=openai gemini"`
	APIKey          string        `mapstructure:"api_key"          validate:"required"`
	BaseURL         string        `mapstructure:"base_url"         validate:"omitempty,url"`
	Model           string        `mapstructure:"model"            validate:"required"`
	TranscribeModel string        `mapstructure:"transcribe_model" validate:"required"`
	Temperature     float32       `mapstructure:"temperature"      validate:"min=0,max=2"`
	Timeout         time.Duration `mapstructure:"timeout"          validate:"min=1s,max=10m"`
}

// MarketConfig holds price-provider settings.
type MarketConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"min=1s,max=1m"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// MonitorConfig controls the periodic market volatility sweep.
type MonitorConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Interval        time.Duration `mapstructure:"interval"         validate:"min=1m"`
	ChangeThreshold float64       `mapstructure:"change_threshold" validate:"gt=0"`
}

// AdvisorConfig holds advisor-pipeline settings. PortfolioPath optionally
// points to a JSON file with the portfolio snapshot; when empty or unreadable
// the built-in fixture is used.
type AdvisorConfig struct {
	PortfolioPath string `mapstructure:"portfolio_path"`
}

// LoadConfig reads configuration from the given YAML file (if present),
// applies defaults and environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("WW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults plus environment
		// overrides must be enough to run.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("llm.backend", "openai")
	// Registered empty so AutomaticEnv can resolve WW_LLM_API_KEY; validation
	// still rejects a missing key.
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.hicap.ai/v2/openai")
	v.SetDefault("llm.model", "gemini-2.5-pro")
	v.SetDefault("llm.transcribe_model", "whisper-1")
	v.SetDefault("llm.temperature", 1.0)
	v.SetDefault("llm.timeout", 2*time.Minute)

	v.SetDefault("market.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("market.timeout", 5*time.Second)

	v.SetDefault("database.path", "walletwise.db")

	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.interval", 15*time.Minute)
	v.SetDefault("monitor.change_threshold", 10.0)
}
