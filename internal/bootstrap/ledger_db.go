package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/config"
	"github.com/wiqayah/admin-console/internal/migrate"
)

const ledgerApplicationName = "wiqayah-admin-ledger"

// OpenLedger opens the payments and staff ledger and checks it answers
// within cfg.ConnectTimeout.
func OpenLedger(ctx context.Context, cfg config.DBConfig, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", ledgerDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	applyLedgerPool(db, cfg)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close ledger: %w", closeErr))
		}
		return nil, fmt.Errorf("ping ledger %s: %w", cfg.Name, pingErr)
	}

	if logger != nil {
		logger.Info("ledger database connected",
			zap.String("host", cfg.Host),
			zap.String("database", cfg.Name),
			zap.Int("max_open_conns", db.Stats().MaxOpenConnections),
		)
	}
	return db, nil
}

// ledgerDSN builds the connection URL; url.URL escapes credentials.
func ledgerDSN(cfg config.DBConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	q := url.Values{}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q.Set("sslmode", sslMode)
	q.Set("application_name", ledgerApplicationName)
	if cfg.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(max(1, int(cfg.ConnectTimeout.Seconds()))))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func applyLedgerPool(db *sql.DB, cfg config.DBConfig) {
	open := cfg.MaxOpenConns
	if open <= 0 {
		open = 4
	}
	idle := min(max(cfg.MaxIdleConns, 0), open)
	db.SetMaxOpenConns(open)
	db.SetMaxIdleConns(idle)
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// MigrateLedger applies the ledger schema.
func MigrateLedger(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if err := migrate.Run(ctx, db, logger); err != nil {
		return fmt.Errorf("migrate ledger: %w", err)
	}
	if logger != nil {
		logger.Info("ledger migrations completed")
	}
	return nil
}
