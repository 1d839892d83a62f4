package postmark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.ServerToken)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Contains(t, cfg.UserAgent, "lattiq-postmark/")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("POSTMARK_SERVER_TOKEN", "env-token")
	t.Setenv("POSTMARK_BASE_URL", "https://postmark.example.com")
	t.Setenv("POSTMARK_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.ServerToken)
	assert.Equal(t, "https://postmark.example.com", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("POSTMARK_SERVER_TOKEN", "env-token")
	t.Setenv("POSTMARK_BASE_URL", "")
	t.Setenv("POSTMARK_TIMEOUT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadConfig_MissingToken(t *testing.T) {
	t.Setenv("POSTMARK_SERVER_TOKEN", "")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingServerToken)
}

func TestLoadConfig_BlankToken(t *testing.T) {
	t.Setenv("POSTMARK_SERVER_TOKEN", "   ")

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingServerToken)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.ServerToken = "" },
			wantErr: ErrMissingServerToken,
		},
		{
			name:    "whitespace token",
			mutate:  func(c *Config) { c.ServerToken = "\t " },
			wantErr: ErrMissingServerToken,
		},
		{
			name:    "empty base URL",
			mutate:  func(c *Config) { c.BaseURL = "" },
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "base URL without scheme",
			mutate:  func(c *Config) { c.BaseURL = "api.postmarkapp.com" },
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: ErrInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ServerToken = "tok"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	for _, opt := range []Option{
		WithServerToken("tok"),
		WithBaseURL("https://postmark.example.com"),
		WithTimeout(7 * time.Second),
		WithUserAgent("my-app/1.0"),
	} {
		opt(&cfg)
	}

	assert.Equal(t, "tok", cfg.ServerToken)
	assert.Equal(t, "https://postmark.example.com", cfg.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.Timeout)
	assert.Equal(t, "my-app/1.0", cfg.UserAgent)
}
