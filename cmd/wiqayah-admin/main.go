package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/config"
	"github.com/wiqayah/admin-console/internal/bootstrap"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
	logger, err := bootstrap.InitLogger(cfg.IsDev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1) //nolint:forbidigo // see above
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), logger, &cfg); err != nil {
		logger.Error("fatal error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *zap.Logger, cfg *config.AppConfig) error {
	logStartupInfo(logger, cfg)

	db, redisClient, err := initInfrastructure(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeInfrastructure(logger, db, redisClient)

	if db != nil {
		if cfg.Postgres.RunMigrationsOnStart {
			if err = bootstrap.MigrateLedger(ctx, db, logger); err != nil {
				return err
			}
		} else {
			logger.Info("skipping database migrations on startup", zap.String("reason", "disabled via config"))
		}
	}

	services, err := bootstrap.NewServices(ctx, &bootstrap.ServiceDeps{
		Config:      cfg,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.Warn("close services failed", zap.Error(cerr))
		}
	}()

	return bootstrap.RunServicesWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:   cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(logger *zap.Logger, cfg *config.AppConfig) {
	logger.Info("starting wiqayah admin console",
		zap.String("auth_mode", string(cfg.Auth.Mode)),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Bool("ledger", cfg.Postgres.Enabled),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("dev", cfg.IsDev))
}

// initInfrastructure connects the optional ledger database and token store.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func initInfrastructure(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*sql.DB, redis.UniversalClient, error) {
	var db *sql.DB
	if cfg.Postgres.Enabled {
		conn, err := bootstrap.OpenLedger(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
		db = conn
	} else {
		logger.Info("ledger disabled; payments and staff pages are hidden")
	}

	if !cfg.Redis.Enabled {
		return db, nil, nil
	}
	redisClient, err := bootstrap.OpenTokenStore(ctx, cfg.Redis, logger)
	if err != nil {
		err = fmt.Errorf("connect redis: %w", err)
		if db != nil {
			if cerr := db.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("close database: %w", cerr))
			}
		}
		return nil, nil, err
	}
	return db, redisClient, nil
}

func closeInfrastructure(logger *zap.Logger, db *sql.DB, redisClient redis.UniversalClient) {
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("close database failed", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis failed", zap.Error(err))
		}
	}
}
