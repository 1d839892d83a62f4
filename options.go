package postmark

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithServerToken sets the server token.
func WithServerToken(token string) Option {
	return func(c *Config) {
		c.ServerToken = token
	}
}

// WithBaseURL sets the API host, e.g. for pointing at a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithHTTPClient replaces the default HTTP transport entirely. The
// configured timeout is ignored in favor of the given client's.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Config) {
		c.UserAgent = userAgent
	}
}

// WithLogger attaches a structured logger for request-level debug logs.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
