// Package backend is the HTTP client for the platform REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/wiqayah/admin-console/internal/observability/metrics"
	"github.com/wiqayah/admin-console/internal/observability/statsd"
	"github.com/wiqayah/admin-console/internal/ports"
)

var _ ports.AdminAPI = (*Client)(nil)

const maxErrorBody = 4 << 10

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Config captures backend client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
	Logger  *zap.Logger
	Metrics statsd.Sink // Optional
}

// Client calls the backend. Requests carry the bearer token produced by the
// client's token source; a blank token sends the request unauthenticated.
type Client struct {
	baseURL string
	hc      *http.Client
	tokens  oauth2.TokenSource
	logger  *zap.Logger
	metrics statsd.Sink
}

// NewClient builds a backend client without a token source.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("backend base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: base, hc: hc, logger: logger, metrics: cfg.Metrics}, nil
}

// WithTokenSource returns a copy of the client that authenticates with ts.
func (c *Client) WithTokenSource(ts oauth2.TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

type request struct {
	op     string // metric tag; paths carry ids
	method string
	path   string
	query  url.Values
	body   any
	token  string // explicit bearer token; overrides the token source
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req, r.token)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.EmitBackendCall(c.metrics, metrics.BackendCall{Op: r.op, Duration: time.Since(start), Err: err})
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()
	metrics.EmitBackendCall(c.metrics, metrics.BackendCall{Op: r.op, Status: resp.StatusCode, Duration: time.Since(start)})

	c.logger.Debug("backend call",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, r)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request, explicit string) {
	if explicit != "" {
		(&oauth2.Token{AccessToken: explicit, TokenType: "Bearer"}).SetAuthHeader(req)
		return
	}
	if c.tokens == nil {
		return
	}
	tok, err := c.tokens.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		return
	}
	tok.SetAuthHeader(req)
}

func decodeError(resp *http.Response, r request) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode, Method: r.method, Path: r.path}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(http.StatusText(resp.StatusCode))
	}
	return apiErr
}

// StaticToken adapts a fixed bearer token to oauth2.TokenSource.
func StaticToken(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}
