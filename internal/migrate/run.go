// Package migrate applies the embedded ledger schema.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/internal/data/pgxutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// advisoryLockKey serializes migrations across console replicas starting together.
const advisoryLockKey int64 = 0x77697161 // "wiqa"

// Migration is one embedded schema file.
type Migration struct {
	Version string
	SQL     string
}

// Load returns the embedded migrations in version order.
func Load() ([]Migration, error) {
	return load(migrationsFS, "migrations")
}

func load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		body, readErr := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if readErr != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), readErr)
		}
		out = append(out, Migration{Version: strings.TrimSuffix(e.Name(), ".sql"), SQL: string(body)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Run applies pending ledger migrations. Applied versions are recorded in
// schema_migrations, so repeat calls are no-ops. Each migration runs in its
// own transaction while a session advisory lock is held.
func Run(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	migrations, err := Load()
	if err != nil {
		return err
	}
	return pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		if _, lockErr := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockKey); lockErr != nil {
			return fmt.Errorf("acquire migration lock: %w", lockErr)
		}
		defer func() {
			if _, unlockErr := conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, advisoryLockKey); unlockErr != nil {
				logger.Warn("release migration lock failed", zap.Error(unlockErr))
			}
		}()

		if _, createErr := conn.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version TEXT PRIMARY KEY,
				applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`); createErr != nil {
			return fmt.Errorf("create schema_migrations table: %w", createErr)
		}

		for _, m := range migrations {
			if applyErr := apply(ctx, conn, m, logger); applyErr != nil {
				return applyErr
			}
		}
		return nil
	})
}

func apply(ctx context.Context, conn *pgx.Conn, m Migration, logger *zap.Logger) error {
	var exists bool
	if err := conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check migration %s: %w", m.Version, err)
	}
	if exists {
		return nil
	}

	logger.Info("applying migration", zap.String("version", m.Version))
	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if _, execErr := tx.Exec(ctx, m.SQL); execErr != nil {
			return fmt.Errorf("exec migration %s: %w", m.Version, execErr)
		}
		if _, insErr := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); insErr != nil {
			return fmt.Errorf("record migration %s: %w", m.Version, insErr)
		}
		return nil
	})
}
