package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/internal/bootstrap"
	"github.com/wiqayah/admin-console/internal/service"
)

const sessionScanBatch = 200

type listSessionsOptions struct {
	Timeout time.Duration
}

type clearSessionsOptions struct {
	Timeout   time.Duration
	SessionID string
	All       bool
	DryRun    bool
	Yes       bool
}

// storedSession describes one browser namespace in Redis.
type storedSession struct {
	ID     string
	Fields int64
	TTL    time.Duration
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opts := listSessionsOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration for the scan")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withRedis(cmdCtx, opts.Timeout, func(ctx context.Context, rc redis.UniversalClient) error {
		sessions, err := scanSessions(ctx, rc, bootstrap.TokenKeyPrefix(cmdCtx.Config.Redis.KeyPrefix))
		if err != nil {
			return err
		}
		return renderSessions(cmdCtx, sessions)
	})
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionsFlags(args)
	if err != nil {
		return err
	}
	prefix := bootstrap.TokenKeyPrefix(cmdCtx.Config.Redis.KeyPrefix)

	return withRedis(cmdCtx, opts.Timeout, func(ctx context.Context, rc redis.UniversalClient) error {
		var ids []string
		if opts.All {
			sessions, scanErr := scanSessions(ctx, rc, prefix)
			if scanErr != nil {
				return scanErr
			}
			for _, s := range sessions {
				ids = append(ids, s.ID)
			}
		} else {
			ids = []string{opts.SessionID}
		}

		if len(ids) == 0 {
			return writeln(cmdCtx.Out, "No stored sessions.")
		}
		if opts.DryRun {
			for _, id := range ids {
				if werr := writef(cmdCtx.Out, "would clear %s\n", id); werr != nil {
					return werr
				}
			}
			return nil
		}
		if opts.All {
			confirm := clearConfirmation{yes: opts.Yes, count: len(ids)}
			if confirmErr := confirmAction(os.Stdin, cmdCtx.Out, confirm); confirmErr != nil {
				return confirmErr
			}
		}

		keys := make([]string, 0, len(ids))
		for _, id := range ids {
			keys = append(keys, prefix+id)
		}
		removed, delErr := rc.Del(ctx, keys...).Result()
		if delErr != nil {
			return fmt.Errorf("redis del: %w", delErr)
		}
		cmdCtx.Logger.Info("cleared stored sessions", zap.Int64("removed", removed))
		return writef(cmdCtx.Out, "Cleared %d session(s). Affected browsers must sign in again.\n", removed)
	})
}

func parseClearSessionsFlags(args []string) (clearSessionsOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := clearSessionsOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration for the operation")
	fs.StringVar(&opts.SessionID, "session-id", "", "Clear a single browser session")
	fs.BoolVar(&opts.All, "all", false, "Clear every stored session")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print the sessions that would be cleared")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return clearSessionsOptions{}, err
	}
	opts.SessionID = strings.TrimSpace(opts.SessionID)
	switch {
	case opts.All && opts.SessionID != "":
		return clearSessionsOptions{}, errors.New("--all and --session-id are mutually exclusive")
	case !opts.All && opts.SessionID == "":
		return clearSessionsOptions{}, errors.New("one of --session-id or --all is required")
	case opts.SessionID != "" && !service.ValidSessionID(opts.SessionID):
		return clearSessionsOptions{}, fmt.Errorf("invalid session id %q", opts.SessionID)
	case opts.Timeout <= 0:
		return clearSessionsOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

type clearConfirmation struct {
	yes   bool
	count int
}

func (c clearConfirmation) Skip() bool { return c.yes }

func (c clearConfirmation) Message() string {
	return fmt.Sprintf("About to sign out %d browser session(s).", c.count)
}

func withRedis(cmdCtx *commandContext, timeout time.Duration, f func(context.Context, redis.UniversalClient) error) error {
	if !cmdCtx.Config.Redis.Enabled {
		return errors.New("redis token storage is disabled (REDIS_ENABLED=false); sessions live in server memory")
	}
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, timeout)
	defer cancel()

	rc, err := bootstrap.OpenTokenStore(ctx, cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", zap.Error(cerr))
		}
	}()
	return f(ctx, rc)
}

func scanSessions(ctx context.Context, rc redis.UniversalClient, prefix string) ([]storedSession, error) {
	var (
		out    []storedSession
		cursor uint64
	)
	for {
		keys, next, err := rc.Scan(ctx, cursor, prefix+"*", sessionScanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}
		for _, key := range keys {
			s := storedSession{ID: strings.TrimPrefix(key, prefix)}
			if s.Fields, err = rc.HLen(ctx, key).Result(); err != nil {
				return nil, fmt.Errorf("redis hlen %s: %w", key, err)
			}
			if s.TTL, err = rc.TTL(ctx, key).Result(); err != nil {
				return nil, fmt.Errorf("redis ttl %s: %w", key, err)
			}
			out = append(out, s)
		}
		cursor = next
		if cursor == 0 {
			return out, nil
		}
	}
}

func renderSessions(cmdCtx *commandContext, sessions []storedSession) error {
	if len(sessions) == 0 {
		return writeln(cmdCtx.Out, "No stored sessions.")
	}
	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "SESSION\tKEYS\tEXPIRES IN"); err != nil {
		return err
	}
	for _, s := range sessions {
		ttl := "never"
		if s.TTL > 0 {
			ttl = s.TTL.Round(time.Second).String()
		}
		if err := writef(tw, "%s\t%d\t%s\n", s.ID, s.Fields, ttl); err != nil {
			return err
		}
	}
	return tw.Flush()
}
