package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// BackendConfig points the console at the platform REST API.
type BackendConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:3000/api"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"10s"`
}

// Sanitize applies guardrails to backend client configuration.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 10 * time.Second
	}
}

// Validate requires an absolute http(s) base URL.
func (b *BackendConfig) Validate() error {
	u, err := url.Parse(b.BaseURL)
	if err != nil {
		return fmt.Errorf("BACKEND_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL %q must be an absolute http(s) URL", b.BaseURL)
	}
	return nil
}
