package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/codewarden-kit/internal/logger"
	"github.com/spf13/viper"
)

// Config represents the top-level configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	GitHub     GitHubConfig     `mapstructure:"github"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Cache      CacheConfig      `mapstructure:"cache"`
	CostTrack  CostTrackConfig  `mapstructure:"cost_tracking"`
	Review     ReviewConfig     `mapstructure:"review"`
	Database   DBConfig         `mapstructure:"database"`
	Logging    logger.Config    `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ToolCallMode bool   `mapstructure:"toolcall_mode"`
}

type GitHubConfig struct {
	AppID          int64  `mapstructure:"app_id"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
	Token          string `mapstructure:"token"`
	// WebhookSecret is carried for parity with the teacher's config layout
	// even though no webhook listener is wired into this gateway; see
	// DESIGN.md for why internal/server/handler/webhook.go was dropped.
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// LLMConfig holds per-variant endpoint/key settings and the prompt-ceiling
// each CloudX/LocalGenerate client enforces before ever reaching a provider.
type LLMConfig struct {
	DefaultModel       string `mapstructure:"default_model"`
	OpenAIBaseURL      string `mapstructure:"openai_base_url"`
	OpenAIAPIKey       string `mapstructure:"openai_api_key"`
	AnthropicBaseURL   string `mapstructure:"anthropic_base_url"`
	AnthropicAPIKey    string `mapstructure:"anthropic_api_key"`
	GoogleAPIKey       string `mapstructure:"google_api_key"`
	LocalHost          string `mapstructure:"local_host"`
	TokenizerFilePath  string `mapstructure:"tokenizer_file_path"`
	PromptCeilingTokens int   `mapstructure:"prompt_ceiling_tokens"`
}

type CacheConfig struct {
	Root        string  `mapstructure:"root"`
	TTLHours    int     `mapstructure:"ttl_hours"`
	MaxSizeGB   float64 `mapstructure:"max_size_gb"`
}

// CostTrackConfig supplies the custom_pricing override table from spec §4.11.
type CostTrackConfig struct {
	CustomPricing []CustomPrice `mapstructure:"custom_pricing"`
}

type CustomPrice struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	InputPer1K  float64 `mapstructure:"input_per_1k"`
	OutputPer1K float64 `mapstructure:"output_per_1k"`
}

type ReviewConfig struct {
	Mode              string `mapstructure:"mode"` // "basic" or "smart"
	FileLimit         int    `mapstructure:"file_limit"`
	MaxTurns          int    `mapstructure:"max_turns"`
	FinalizeThreshold int    `mapstructure:"finalize_threshold"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"` // "" (JSONL store) or "postgres"
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoadConfig loads the configuration using Viper with the hierarchy:
// Flags (handled by caller) > Env Vars > Config File > Defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.kit")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded configuration", "file", v.ConfigFileUsed())
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvAliases(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &cfg, nil
}

// bindEnvAliases wires the recognized environment variables onto their
// config keys; KIT_GITHUB_TOKEN/ANTHROPIC_API_KEY etc. take precedence over
// any config file value via viper's env-over-file ordering.
func bindEnvAliases(v *viper.Viper) {
	_ = v.BindEnv("github.token", "KIT_GITHUB_TOKEN")
	_ = v.BindEnv("llm.anthropic_api_key", "KIT_ANTHROPIC_TOKEN", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("llm.openai_api_key", "KIT_OPENAI_TOKEN", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.google_api_key", "GOOGLE_API_KEY")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")

	v.SetDefault("github.private_key_path", "keys/kit-app.private-key.pem")

	v.SetDefault("llm.local_host", "http://localhost:11434")
	v.SetDefault("llm.prompt_ceiling_tokens", 15000)

	v.SetDefault("cache.root", "./data/repo-cache")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("cache.max_size_gb", 10.0)

	v.SetDefault("review.mode", "basic")
	v.SetDefault("review.file_limit", 8)
	v.SetDefault("review.max_turns", 15)
	v.SetDefault("review.finalize_threshold", 15)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("database.driver", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
}

// ValidateForServer enforces the settings a running `serve` process needs
// that a one-shot CLI command doesn't.
func (c *Config) ValidateForServer() error {
	if c.GitHub.AppID != 0 && c.GitHub.PrivateKeyPath == "" {
		return errors.New("github.private_key_path is required when github.app_id is set")
	}
	return nil
}

func (db *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.Username, db.Password, db.Database, db.SSLMode)
}
