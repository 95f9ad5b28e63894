// Package linearapi is the gateway to Linear's GraphQL API: reads, mutations
// and name lookups used by the CLI and the interactive views.
package linearapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"
)

// ErrOperationFailed is returned when a mutation reports success=false.
var ErrOperationFailed = errors.New("operation failed")

// GraphQL input objects. shurcooL/graphql declares variable types by Go type
// name, so each name must match Linear's schema exactly.
type (
	IssueFilter        map[string]interface{}
	ProjectFilter      map[string]interface{}
	IssueCreateInput   map[string]interface{}
	IssueUpdateInput   map[string]interface{}
	ProjectCreateInput map[string]interface{}
	ProjectUpdateInput map[string]interface{}
)

const (
	// DefaultEndpoint is the default Linear API GraphQL endpoint.
	DefaultEndpoint = "https://api.linear.app/graphql"

	defaultTimeout    = 30 * time.Second
	defaultPageSize   = 100
	defaultMaxRetries = 3
	defaultRetryDelay = 250 * time.Millisecond
)

// ClientConfig contains configuration for creating a new Linear API client.
type ClientConfig struct {
	// Token is the Linear API key for authentication.
	Token string
	// Endpoint is the GraphQL API endpoint (defaults to Linear's production endpoint).
	Endpoint string
	// HTTPClient is an optional custom HTTP client (useful for testing).
	HTTPClient *http.Client
	// Timeout is the HTTP request timeout (defaults to 30s).
	Timeout time.Duration
	// PageSize is the number of nodes requested per page for list queries.
	PageSize int
	// MaxRetries bounds retries of read queries on transient failures (0 = default, <0 = none).
	MaxRetries int
	// RetryInitialInterval is the first backoff delay (defaults to 250ms).
	RetryInitialInterval time.Duration
}

// normalized fills unset fields with their defaults.
func (cfg ClientConfig) normalized() ClientConfig {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = defaultMaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = defaultRetryDelay
	}
	return cfg
}

// Client talks to the Linear GraphQL API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	client     *graphql.Client
	pageSize   int
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a new Linear API client with the provided configuration.
func NewClient(cfg ClientConfig) *Client {
	cfg = cfg.normalized()

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	// Every request carries the API key, including on caller-supplied clients.
	httpClient.Transport = &authTransport{Token: cfg.Token, Base: httpClient.Transport}

	return &Client{
		httpClient: httpClient,
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		client:     graphql.NewClient(cfg.Endpoint, httpClient),
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryInitialInterval,
	}
}

// NewClientWithToken creates a client for the production endpoint.
func NewClientWithToken(token string) *Client {
	return NewClient(ClientConfig{Token: token})
}

// authTransport sets Linear's Authorization header (a personal API key, no
// Bearer prefix).
type authTransport struct {
	Token string
	Base  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", t.Token)
	if t.Base == nil {
		return http.DefaultTransport.RoundTrip(req)
	}
	return t.Base.RoundTrip(req)
}

// parseTime parses an RFC3339 timestamp, returning the zero time on error.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseOptionalTime parses a nullable RFC3339 field.
func parseOptionalTime(s *graphql.String) *time.Time {
	if s == nil {
		return nil
	}
	t := parseTime(string(*s))
	if t.IsZero() {
		return nil
	}
	return &t
}
