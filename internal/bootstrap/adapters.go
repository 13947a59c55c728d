package bootstrap

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/config"
	"github.com/wiqayah/admin-console/internal/adapters/backend"
	"github.com/wiqayah/admin-console/internal/adapters/memstore"
	redisadapter "github.com/wiqayah/admin-console/internal/adapters/redis"
	"github.com/wiqayah/admin-console/internal/adapters/sealed"
	"github.com/wiqayah/admin-console/internal/cryptoutil"
	"github.com/wiqayah/admin-console/internal/observability/statsd"
	"github.com/wiqayah/admin-console/internal/ports"
)

// TokenStorageConfig contains what the per-browser token storage needs.
type TokenStorageConfig struct {
	RedisClient   redis.UniversalClient // nil selects in-process storage
	KeyPrefix     string
	EncryptionKey string
	Logger        *zap.Logger
}

// BuildTokenStorage returns the storage gates persist credentials into.
// Values are always sealed; without a key they are only encoded.
//
//nolint:ireturn // callers only need the port.
func BuildTokenStorage(cfg TokenStorageConfig) (ports.TokenStorage, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var inner ports.TokenStorage
	if cfg.RedisClient != nil {
		inner = redisadapter.NewLocalStorageWithPrefix(cfg.RedisClient, TokenKeyPrefix(cfg.KeyPrefix))
	} else {
		logger.Warn("redis disabled; sessions will not survive a restart")
		inner = memstore.New()
	}

	var enc cryptoutil.Encryptor = cryptoutil.PlainEncryptor{}
	if cfg.EncryptionKey != "" {
		aes, err := cryptoutil.NewEncryptorFromKey(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("session encryption key: %w", err)
		}
		enc = aes
	} else {
		logger.Warn("SESSION_ENCRYPTION_KEY is empty; stored tokens are not encrypted")
	}
	return sealed.New(inner, enc, logger), nil
}

// BuildBackendClient creates the platform REST client shared by every gate.
func BuildBackendClient(cfg config.BackendConfig, metrics statsd.Sink, logger *zap.Logger) (*backend.Client, error) {
	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	return client, nil
}

// BuildMetrics creates the StatsD client. A disabled config yields a client
// that drops every metric.
func BuildMetrics(cfg config.ObservabilityMetricsConfig, logger *zap.Logger) (*statsd.Client, error) {
	client, err := statsd.NewClient(statsd.Config{
		Enabled:    cfg.IsEnabled(),
		Address:    cfg.StatsdAddress,
		Prefix:     cfg.Prefix,
		GlobalTags: cfg.GlobalTags(),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create statsd client: %w", err)
	}
	if cfg.IsEnabled() && logger != nil {
		logger.Info("statsd metrics enabled", zap.String("addr", cfg.StatsdAddress), zap.String("prefix", cfg.Prefix))
	}
	return client, nil
}
