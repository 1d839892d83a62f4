package postmark

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production Postmark API host.
const DefaultBaseURL = "https://api.postmarkapp.com"

// Config holds the complete client configuration. The server token is an
// explicit value carried by the client; it is never read from the
// environment inside request paths, so rotation takes effect by
// constructing a new client.
type Config struct {
	// ServerToken authenticates requests against a single Postmark server.
	ServerToken string `env:"POSTMARK_SERVER_TOKEN"`

	// BaseURL is the API host. Override it to point at a test server.
	BaseURL string `env:"POSTMARK_BASE_URL" envDefault:"https://api.postmarkapp.com"`

	// Timeout is the per-request timeout of the default HTTP client.
	// Ignored when HTTPClient is set.
	Timeout time.Duration `env:"POSTMARK_TIMEOUT" envDefault:"30s"`

	// UserAgent is sent with every request.
	UserAgent string

	// HTTPClient optionally replaces the default transport.
	HTTPClient *http.Client

	// Logger receives structured request logs. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// DefaultConfig returns a configuration with sensible defaults and no
// server token.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   30 * time.Second,
		UserAgent: defaultUserAgent(),
		Logger:    zerolog.Nop(),
	}
}

// LoadConfig reads configuration from the process environment. The token
// comes from POSTMARK_SERVER_TOKEN; an unset or empty variable is a
// configuration error and no request will ever be attempted without it.
func LoadConfig() (Config, error) {
	cfg := Config{
		UserAgent: defaultUserAgent(),
		Logger:    zerolog.Nop(),
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if strings.TrimSpace(cfg.ServerToken) == "" {
		return Config{}, ErrMissingServerToken
	}
	return cfg, nil
}

// Validate checks if the configuration is valid and complete.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerToken) == "" {
		return ErrMissingServerToken
	}

	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfiguration)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: invalid base URL %q", ErrInvalidConfiguration, c.BaseURL)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfiguration)
	}

	return nil
}
