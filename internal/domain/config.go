package domain

import "time"

// LogFormat selects the zerolog writer
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

type Config struct {
	HTTPAddr           string        `toml:"http_addr" mapstructure:"http_addr"`
	DBDir              string        `toml:"db_dir" mapstructure:"db_dir"`
	JikanBaseURL       string        `toml:"jikan_base_url" mapstructure:"jikan_base_url"`
	JikanTimeout       time.Duration `toml:"jikan_timeout" mapstructure:"jikan_timeout"`
	UserAgent          string        `toml:"user_agent" mapstructure:"user_agent"`
	LogLevel           string        `toml:"log_level" mapstructure:"log_level"`
	LogFormat          LogFormat     `toml:"log_format" mapstructure:"log_format"`
	DiscordWebhookURL  string        `toml:"discord_webhook_url" mapstructure:"discord_webhook_url"`
	RateLimitPerMinute int           `toml:"rate_limit_per_minute" mapstructure:"rate_limit_per_minute"`
	RateLimitBurst     int           `toml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}
