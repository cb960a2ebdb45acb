package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/mangacat/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, DefaultJikanBaseURL, cfg.JikanBaseURL)
	assert.Equal(t, DefaultJikanTimeout, cfg.JikanTimeout)
	assert.Equal(t, domain.LogFormatConsole, cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	v.Set("jikan_base_url", "http://localhost:9000/v4")
	v.Set("jikan_timeout", "3s")
	v.Set("log_format", "json")

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/v4", cfg.JikanBaseURL)
	assert.Equal(t, 3*time.Second, cfg.JikanTimeout)
	assert.Equal(t, domain.LogFormatJSON, cfg.LogFormat)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"log_format", "xml"},
		{"log_level", "loud"},
		{"jikan_base_url", "not a url"},
		{"jikan_timeout", "0s"},
		{"rate_limit_burst", -1},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := LoadFrom(v)
			assert.Error(t, err)
		})
	}
}
