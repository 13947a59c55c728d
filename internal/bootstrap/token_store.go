package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/config"
)

const tokenStoreClientName = "wiqayah-admin"

// OpenTokenStore connects the Redis deployment that holds per-browser
// credentials. Sentinel, cluster and single-node setups all go through
// redis.NewUniversalClient; tokenStoreOptions decides which one is built.
//
//nolint:ireturn // the concrete client depends on the deployment.
func OpenTokenStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (redis.UniversalClient, error) {
	opts, target, err := tokenStoreOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewUniversalClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close token store: %w", closeErr))
		}
		return nil, fmt.Errorf("ping token store %s: %w", target, pingErr)
	}

	if logger != nil {
		logger.Info("token store connected",
			zap.String("target", target),
			zap.String("key_prefix", TokenKeyPrefix(cfg.KeyPrefix)),
			zap.Int("pool_size", opts.PoolSize),
		)
	}
	return client, nil
}

// tokenStoreOptions maps the Redis settings onto universal options. target
// names the deployment for logs and never carries credentials.
func tokenStoreOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	opts := &redis.UniversalOptions{
		ClientName:  tokenStoreClientName,
		Password:    cfg.Password,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = 8
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}

	switch {
	case cfg.UseSentinel:
		nodes := trimAddrs(cfg.SentinelNodes)
		if len(nodes) == 0 || cfg.SentinelMasterName == "" {
			return nil, "", errors.New("token store sentinel mode needs sentinel nodes and a master name")
		}
		opts.Addrs = nodes
		opts.MasterName = cfg.SentinelMasterName
		opts.SentinelPassword = cfg.SentinelPassword
		return opts, "sentinel:" + cfg.SentinelMasterName, nil

	case cfg.UseCluster:
		nodes := trimAddrs(cfg.ClusterNodes)
		if len(nodes) == 0 {
			seed, err := applyRedisURI(opts, cfg.URI)
			if err != nil {
				return nil, "", err
			}
			nodes = seed
		}
		if len(nodes) == 0 {
			return nil, "", errors.New("token store cluster mode needs at least one node")
		}
		opts.Addrs = nodes
		opts.IsClusterMode = true
		return opts, "cluster:" + strings.Join(nodes, ","), nil

	default:
		addrs, err := applyRedisURI(opts, cfg.URI)
		if err != nil {
			return nil, "", err
		}
		if len(addrs) == 0 {
			return nil, "", errors.New("token store needs REDIS_URI")
		}
		opts.Addrs = addrs
		return opts, addrs[0], nil
	}
}

// applyRedisURI accepts either host:port or a redis:// or rediss:// URL.
// URL credentials, database and TLS settings override the plain fields.
func applyRedisURI(opts *redis.UniversalOptions, uri string) ([]string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, nil
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		return []string{uri}, nil
	}
	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URI: %w", err)
	}
	if parsed.Username != "" {
		opts.Username = parsed.Username
	}
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	opts.DB = parsed.DB
	opts.TLSConfig = parsed.TLSConfig
	return []string{parsed.Addr}, nil
}

func trimAddrs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, addr := range raw {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// TokenKeyPrefix returns the prefix session hashes are stored under. Every
// prefix ends in ":" so session ids never run into the namespace.
func TokenKeyPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "wiqayah:storage:"
	}
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return prefix
}
