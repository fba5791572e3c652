// Package apiclient provides the shared HTTP client used to call the backend
// API.
//
// The client is configured once at startup (base URL, default headers,
// timeout) so that callers do not repeat that setup per request. Before each
// request a bearer token is fetched from the configured credentials.Provider
// and attached to the outgoing headers. Failed requests are classified into
// setup, network and server errors, logged, and returned to the caller
// unchanged - the client never retries and never swallows an error (see
// errors.go).
package apiclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	apikit "github.com/appfoundry/apikit"
	"github.com/appfoundry/apikit/internal/credentials"
)

// Config is captured at construction and is immutable afterwards.
type Config struct {
	// BaseURL is prepended to every request path, e.g. "http://localhost:3000/api"
	BaseURL string

	// Timeout bounds each call end to end. There is no per-call override.
	// Defaults to apikit.DefaultRequestTimeout.
	Timeout time.Duration

	// DefaultHeaders are applied to every request before per-call headers.
	// Content-Type defaults to application/json unless explicitly replaced.
	DefaultHeaders map[string]string
}

// Client issues HTTP requests with the shared configuration. Safe for
// concurrent use: the configuration is read-only after New returns and
// per-call state lives on the stack.
type Client struct {
	baseURL        *url.URL
	defaultHeaders map[string]string
	httpClient     *http.Client
	creds          credentials.Provider
	logger         *slog.Logger
}

type Option func(*Client)

// WithCredentials sets the provider consulted before every request for a
// bearer token. Without it no Authorization header is attached.
func WithCredentials(p credentials.Provider) Option {
	return func(c *Client) { c.creds = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient replaces the underlying transport wholesale (the Config
// timeout no longer applies). Intended for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", cfg.BaseURL)
	}
	if baseURL.Host == "" {
		return nil, fmt.Errorf("base URL %q does not include a host", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = apikit.DefaultRequestTimeout
	}

	headers := make(map[string]string, len(cfg.DefaultHeaders)+1)
	for k, v := range cfg.DefaultHeaders {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = apikit.DefaultContentType
	}

	c := &Client{
		baseURL:        baseURL,
		defaultHeaders: headers,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: timeout}
	}

	return c, nil
}

// BaseURL returns the configured base address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Timeout returns the effective request timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}
