package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	cfg.applyFallbacks()
	return &cfg
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig(t)
	assert.NoError(t, cfg.Validate())
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.Equal(t, "modern", cfg.Export.Template)
	assert.Equal(t, "normal", cfg.Export.Spacing)
	assert.Equal(t, 10.5, cfg.Export.FontSize)
	assert.Equal(t, 2.0, cfg.Export.Scale)
	assert.Equal(t, 50, cfg.Session.HistoryLimit)
	assert.Contains(t, cfg.App.SupportedFormats, "latex")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "negative AI timeout",
			mutate:  func(c *Config) { c.AI.Timeout = -time.Second },
			wantErr: "AI timeout",
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "server port",
		},
		{
			name:    "unsupported default format",
			mutate:  func(c *Config) { c.App.DefaultFormat = "xml" },
			wantErr: "invalid default format",
		},
		{
			name:    "bad spacing",
			mutate:  func(c *Config) { c.Export.Spacing = "wide" },
			wantErr: "invalid export spacing",
		},
		{
			name:    "font size out of range",
			mutate:  func(c *Config) { c.Export.FontSize = 30 },
			wantErr: "font size",
		},
		{
			name:    "scale out of range",
			mutate:  func(c *Config) { c.Export.Scale = 8 },
			wantErr: "scale",
		},
		{
			name:    "negative history limit",
			mutate:  func(c *Config) { c.Session.HistoryLimit = -1 },
			wantErr: "history limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOperationConfigFallbacks(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.AI.APIKey = "global-key"
	cfg.AI.Model = "gemini-2.0-flash"

	analyze := cfg.GetAnalyzeConfig()
	assert.Equal(t, "gemini", analyze.Provider)
	assert.Equal(t, "gemini-2.0-flash", analyze.Model)
	assert.Equal(t, "global-key", analyze.APIKey)
	require.NotNil(t, analyze.Timeout)
	assert.Equal(t, 120*time.Second, *analyze.Timeout)
	require.NotNil(t, analyze.Temperature)
	assert.Equal(t, float32(0.3), *analyze.Temperature)

	// Operation override beats the global value.
	cfg.AI.Improve.Model = "gemini-2.5-pro"
	improve := cfg.GetImproveConfig()
	assert.Equal(t, "gemini-2.5-pro", improve.Model)
	assert.Equal(t, "global-key", improve.APIKey)
}

func TestCircuitBreakerDefaultsPerOperation(t *testing.T) {
	cfg := defaultConfig(t)

	for name, op := range map[string]OperationAIConfig{
		"analyze":     cfg.GetAnalyzeConfig(),
		"rescore":     cfg.GetRescoreConfig(),
		"improve":     cfg.GetImproveConfig(),
		"coverLetter": cfg.GetCoverLetterConfig(),
	} {
		assert.True(t, op.CircuitBreaker.Enabled, name)
		assert.Equal(t, uint32(3), op.CircuitBreaker.MaxRequests, name)
		assert.Equal(t, 0.6, op.CircuitBreaker.FailureThreshold, name)
	}
}
