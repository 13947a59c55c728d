package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/wiqayah/admin-console/config"
	"github.com/wiqayah/admin-console/internal/adapters/backend"
	"github.com/wiqayah/admin-console/internal/data"
	httpx "github.com/wiqayah/admin-console/internal/http"
	"github.com/wiqayah/admin-console/internal/observability/statsd"
	"github.com/wiqayah/admin-console/internal/ports"
	"github.com/wiqayah/admin-console/internal/service"
)

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// ServiceDeps holds the connected infrastructure services are built from.
// DB and RedisClient are nil when their feature is disabled.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *zap.Logger
}

// Services is the console's service container.
type Services struct {
	Registry *service.GateRegistry
	Feed     *service.SessionFeed
	Console  *service.Console
	Ledger   *service.LedgerService // nil when the ledger database is disabled
	Backend  *backend.Client
	Metrics  *statsd.Client

	HealthChecks map[string]httpx.HealthCheck
}

// NewServices builds every console service from deps.
func NewServices(ctx context.Context, deps *ServiceDeps) (*Services, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service deps with config are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	metricsClient, err := BuildMetrics(cfg.Observability.Metrics, logger)
	if err != nil {
		return nil, err
	}
	client, err := BuildBackendClient(cfg.Backend, metricsClient, logger.Named("backend"))
	if err != nil {
		return nil, errors.Join(err, metricsClient.Close())
	}

	identity, err := BuildIdentity(ctx, AuthConfig{Auth: cfg.Auth, Profiles: client, Logger: logger.Named("auth")})
	if err != nil {
		return nil, errors.Join(err, metricsClient.Close())
	}
	store, err := BuildTokenStorage(TokenStorageConfig{
		RedisClient:   deps.RedisClient,
		KeyPrefix:     cfg.Redis.KeyPrefix,
		EncryptionKey: cfg.Auth.SessionEncryptionKey,
		Logger:        logger,
	})
	if err != nil {
		return nil, errors.Join(err, metricsClient.Close())
	}

	feed := service.NewSessionFeed(logger.Named("feed"))
	registry := service.NewGateRegistry(service.GateRegistryOptions{
		Identity: identity,
		Storage:  service.GateStorage{Store: store, TTL: cfg.Auth.SessionIdleTTL},
		Feed:     feed,
		Logger:   logger.Named("gate"),
	})
	bind := func(ts oauth2.TokenSource) ports.AdminAPI { return client.WithTokenSource(ts) }

	return &Services{
		Registry:     registry,
		Feed:         feed,
		Console:      service.NewConsole(bind, feed, logger.Named("console")),
		Ledger:       newLedgerService(deps.DB, logger),
		Backend:      client,
		Metrics:      metricsClient,
		HealthChecks: healthChecks(deps),
	}, nil
}

func newLedgerService(db *sql.DB, logger *zap.Logger) *service.LedgerService {
	if db == nil {
		return nil
	}
	clock := &data.RealTimeProvider{}
	return service.NewLedgerService(service.LedgerServiceOptions{
		Payments: data.NewPaymentRepo(db, clock),
		Staff:    data.NewStaffRepo(db, clock),
		Logger:   logger.Named("ledger"),
	})
}

func healthChecks(deps *ServiceDeps) map[string]httpx.HealthCheck {
	checks := map[string]httpx.HealthCheck{}
	if deps.DB != nil {
		db := deps.DB
		checks["postgres"] = func(ctx context.Context) error { return db.PingContext(ctx) }
	}
	if deps.RedisClient != nil {
		rc := deps.RedisClient
		checks["redis"] = func(ctx context.Context) error { return rc.Ping(ctx).Err() }
	}
	return checks
}

// Close stops gate watchers and releases the metrics socket.
func (s *Services) Close() error {
	if s == nil {
		return nil
	}
	if s.Registry != nil {
		s.Registry.Close()
	}
	return s.Metrics.Close()
}

// ServiceOrchestrationConfig contains what RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services *Services
	Logger   *zap.Logger
}

// backgroundService describes a startable background component.
type backgroundService struct {
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	name string
	done <-chan struct{}
}

func launchBackground(ctx context.Context, logger *zap.Logger, errCh chan<- error, svc backgroundService) backgroundServiceHandle {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := svc.start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			select {
			case errCh <- fmt.Errorf("%s failed: %w", svc.name, err):
			default:
				logger.Warn("dropping background service error", zap.String("service", svc.name), zap.Error(err))
			}
		}
	}()
	logger.Info("background service started", zap.String("service", svc.name))
	return backgroundServiceHandle{name: svc.name, done: done}
}

func buildBackgroundServices(cfg *config.AppConfig, services *Services) []backgroundService {
	return []backgroundService{
		{
			name: "session sweeper",
			start: func(ctx context.Context) error {
				services.Registry.RunSweeper(ctx, cfg.Auth.SessionSweepInterval, cfg.Auth.SessionIdleTTL)
				return nil
			},
		},
	}
}

// RunServicesWithShutdown starts the HTTP server and background services and
// blocks until a shutdown signal is received or one of them fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return errors.New("service orchestration config is incomplete")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler, err := BuildHTTPHandler(&HTTPServerConfig{Config: cfg.Config, Services: cfg.Services, Logger: logger.Named("http")})
	if err != nil {
		return err
	}

	background := buildBackgroundServices(cfg.Config, cfg.Services)
	// One slot per component so no failure is dropped.
	errCh := make(chan error, len(background)+1)

	server := StartHTTPServer(logger, handler, cfg.Config.HTTP.Addr, errCh)
	handles := make([]backgroundServiceHandle, 0, len(background))
	for _, svc := range background {
		handles = append(handles, launchBackground(serviceCtx, logger, errCh, svc))
	}

	return waitForShutdown(shutdownConfig{
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  server,
		logger:      logger,
		backgrounds: handles,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  interface{ Shutdown(context.Context) error }
	logger      *zap.Logger
	backgrounds []backgroundServiceHandle
	signals     <-chan os.Signal // tests inject signals here
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := cfg.signals
	if quit == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(ch)
		quit = ch
	}

	select {
	case sig := <-quit:
		cfg.logger.Info("shutting down services", zap.String("signal", sig.String()))
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", zap.Error(err))
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", zap.Error(stopErr))
		}
		return err
	}
}

// gracefulStop drains the HTTP server, then waits for background services.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer cancel()
		cfg.logger.Info("shutting down HTTP server")
		if err := cfg.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}
	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *zap.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
