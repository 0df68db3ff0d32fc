// Package config loads the tabletalk configuration from defaults,
// an optional YAML file and environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Run     RunConfig     `mapstructure:"run"`
	Sandbox SandboxConfig `mapstructure:"sandbox"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LLMConfig holds the code-generation model settings.
type LLMConfig struct {
	Model     string `mapstructure:"model"`
	APIBase   string `mapstructure:"api_base"`
	APIKey    string `mapstructure:"api_key"`
	MaxTokens int    `mapstructure:"max_tokens"`
	// TimeoutSec bounds a single generation call, not script execution.
	TimeoutSec int `mapstructure:"timeout_sec"`
}

// RunConfig holds per-question run behaviour.
type RunConfig struct {
	MaxAttempts       int  `mapstructure:"max_attempts"`
	ErrorCorrection   bool `mapstructure:"error_correction"`
	Conversational    bool `mapstructure:"conversational"`
	EnforcePrivacy    bool `mapstructure:"enforce_privacy"`
	AnonymizePreviews bool `mapstructure:"anonymize_previews"`
	PreviewRows       int  `mapstructure:"preview_rows"`
	CacheEnabled      bool `mapstructure:"cache_enabled"`
}

// SandboxConfig holds script sanitization settings.
type SandboxConfig struct {
	// CustomLibraries extends the library whitelist with caller-registered modules.
	CustomLibraries []string `mapstructure:"custom_libraries"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// New loads and validates the configuration.
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("tabletalk")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/tabletalk")

	v.SetDefault("llm.model", "claude-sonnet-4-20250514")
	v.SetDefault("llm.api_base", "https://api.anthropic.com")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.timeout_sec", 120)

	v.SetDefault("run.max_attempts", 3)
	v.SetDefault("run.error_correction", true)
	v.SetDefault("run.conversational", false)
	v.SetDefault("run.enforce_privacy", false)
	v.SetDefault("run.anonymize_previews", true)
	v.SetDefault("run.preview_rows", 5)
	v.SetDefault("run.cache_enabled", true)

	v.SetDefault("logging.mode", "production")
	v.SetDefault("logging.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("TABLETALK_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive, got: %d", c.LLM.MaxTokens)
	}
	if c.Run.MaxAttempts < 0 {
		return fmt.Errorf("run.max_attempts must not be negative, got: %d", c.Run.MaxAttempts)
	}
	if c.Run.PreviewRows < 0 {
		return fmt.Errorf("run.preview_rows must not be negative, got: %d", c.Run.PreviewRows)
	}
	if c.Logging.Mode != "production" && c.Logging.Mode != "development" {
		return fmt.Errorf("invalid logging.mode: %s, must be 'production' or 'development'", c.Logging.Mode)
	}
	return nil
}
