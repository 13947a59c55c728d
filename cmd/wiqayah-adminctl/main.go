package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/config"
	"github.com/wiqayah/admin-console/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *zap.Logger
	Config config.AppConfig
	Out    io.Writer
}

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultCommandTimeout   = 2 * time.Minute
)

func main() {
	if len(os.Args) < 2 {
		_ = printUsage(os.Stderr)
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		_ = writef(os.Stderr, "unknown command %q\n\n", cmdName)
		_ = printUsage(os.Stderr)
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		_ = writef(os.Stderr, "load config: %v\n", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger, err := bootstrap.InitLogger(true)
	if err != nil {
		_ = writef(os.Stderr, "%v\n", err)
		os.Exit(1) //nolint:forbidigo // see above
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.Error("command failed", zap.String("command", cmdName), zap.Error(runErr))
		_ = logger.Sync()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
	_ = logger.Sync()
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run ledger database migrations",
			run:         runMigrations,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the ledger schema, run migrations, and optionally seed data",
			run:         runDBReset,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run migrations and seed development payments and staff",
			run:         runDBSeed,
		},
		"list-sessions": {
			name:        "list-sessions",
			description: "Inspect browser sessions held in Redis token storage",
			run:         runListSessions,
		},
		"clear-sessions": {
			name:        "clear-sessions",
			description: "Sign browsers out by deleting their stored tokens",
			run:         runClearSessions,
		},
		"stats": {
			name:        "stats",
			description: "Print dashboard statistics from the platform API",
			run:         runStats,
		},
		"bookings": {
			name:        "bookings",
			description: "List bookings from the platform API",
			run:         runBookings,
		},
		"set-booking-status": {
			name:        "set-booking-status",
			description: "Move a booking to a new status",
			run:         runSetBookingStatus,
		},
		"skills": {
			name:        "skills",
			description: "List guard skills, or add one with --add",
			run:         runSkills,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: wiqayah-adminctl <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-20s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func write(w io.Writer, args ...any) error {
	_, err := fmt.Fprint(w, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
