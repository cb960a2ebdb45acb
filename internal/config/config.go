package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/varoOP/mangacat/internal/domain"
)

const (
	DefaultHTTPAddr     = ":8080"
	DefaultJikanBaseURL = "https://api.jikan.moe/v4"
	DefaultJikanTimeout = 15 * time.Second
	DefaultUserAgent    = "mangacat"
)

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", DefaultHTTPAddr)
	v.SetDefault("db_dir", ".")
	v.SetDefault("jikan_base_url", DefaultJikanBaseURL)
	v.SetDefault("jikan_timeout", DefaultJikanTimeout)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", string(domain.LogFormatConsole))
	v.SetDefault("rate_limit_per_minute", 120)
	v.SetDefault("rate_limit_burst", 20)
}

// Load loads configuration from multiple sources:
// 1. Config file (config.yaml, optional)
// 2. Environment variables (MANGACAT_*)
// 3. Command line flags bound by the CLI
func Load() (*domain.Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v
func LoadFrom(v *viper.Viper) (*domain.Config, error) {
	SetDefaults(v)

	cfg := &domain.Config{
		HTTPAddr:           v.GetString("http_addr"),
		DBDir:              v.GetString("db_dir"),
		JikanBaseURL:       v.GetString("jikan_base_url"),
		JikanTimeout:       v.GetDuration("jikan_timeout"),
		UserAgent:          v.GetString("user_agent"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          domain.LogFormat(v.GetString("log_format")),
		DiscordWebhookURL:  v.GetString("discord_webhook_url"),
		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
	}

	if cfg.LogFormat != domain.LogFormatConsole && cfg.LogFormat != domain.LogFormatJSON {
		return nil, fmt.Errorf("invalid log_format: %s (must be 'console' or 'json')", cfg.LogFormat)
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log_level: %s", cfg.LogLevel)
	}

	u, err := url.Parse(cfg.JikanBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid jikan_base_url: %q", cfg.JikanBaseURL)
	}

	if cfg.JikanTimeout <= 0 {
		return nil, fmt.Errorf("jikan_timeout must be positive, got %s", cfg.JikanTimeout)
	}

	if cfg.RateLimitPerMinute < 0 || cfg.RateLimitBurst < 0 {
		return nil, fmt.Errorf("rate limits must not be negative")
	}

	return cfg, nil
}
