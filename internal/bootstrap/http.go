package bootstrap

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/config"
	httpx "github.com/wiqayah/admin-console/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *Services
	Logger   *zap.Logger
}

// BuildHTTPHandler wires the console router from the service container.
func BuildHTTPHandler(cfg *HTTPServerConfig) (http.Handler, error) {
	if cfg == nil || cfg.Services == nil {
		return nil, errors.New("http server config and services are required")
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	services := httpx.RouterServices{
		Registry:     cfg.Services.Registry,
		Console:      cfg.Services.Console,
		Ledger:       cfg.Services.Ledger,
		HealthChecks: cfg.Services.HealthChecks,
		CookieDomain: appCfg.HTTP.CookieDomain,
		SessionTTL:   appCfg.Auth.SessionIdleTTL,
		IsDev:        appCfg.IsDev,
		Logger:       logger,
	}
	if cfg.Services.Metrics != nil {
		services.Metrics = cfg.Services.Metrics
	}
	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", zap.Int("level", appCfg.HTTP.CompressionLevel))
		services.Compression = &httpx.CompressionConfig{Level: appCfg.HTTP.CompressionLevel, MinSize: 1024, Logger: logger}
	}

	handler, err := httpx.NewRouter(services)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	return handler, nil
}

// StartHTTPServer starts serving in the background. Listen failures are
// reported on errCh.
func StartHTTPServer(logger *zap.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- fmt.Errorf("http server: %w", err):
			default:
				logger.Error("HTTP server failed", zap.Error(err))
			}
		}
	}()

	return server
}
