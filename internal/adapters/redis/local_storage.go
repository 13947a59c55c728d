package redis

// Package redis provides Redis-based adapters for the admin console.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wiqayah/admin-console/internal/ports"
)

var _ ports.TokenStorage = (*LocalStorage)(nil)

// LocalStorage keeps one Redis hash per browser namespace. The hash expires
// as a whole; every write slides the expiry forward.
type LocalStorage struct {
	client redis.UniversalClient
	prefix string
}

// NewLocalStorage creates a Redis-backed token storage.
func NewLocalStorage(client redis.UniversalClient) *LocalStorage {
	return NewLocalStorageWithPrefix(client, "storage:")
}

// NewLocalStorageWithPrefix creates a Redis-backed token storage with a custom key prefix.
func NewLocalStorageWithPrefix(client redis.UniversalClient, prefix string) *LocalStorage {
	return &LocalStorage{client: client, prefix: prefix}
}

func (s *LocalStorage) key(namespace string) string { return s.prefix + namespace }

func (s *LocalStorage) Get(ctx context.Context, namespace, key string) (string, error) {
	if namespace == "" || key == "" {
		return "", ports.ErrKeyNotFound
	}
	val, err := s.client.HGet(ctx, s.key(namespace), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis hget: %w", err)
	}
	return val, nil
}

func (s *LocalStorage) Set(ctx context.Context, namespace, key, value string, ttl time.Duration) error {
	if namespace == "" || key == "" {
		return errors.New("storage namespace and key are required")
	}
	if ttl <= 0 {
		return errors.New("storage ttl must be positive")
	}
	k := s.key(namespace)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, key, value)
		pipe.Expire(ctx, k, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *LocalStorage) Remove(ctx context.Context, namespace string, keys ...string) error {
	if namespace == "" || len(keys) == 0 {
		return nil
	}
	return s.client.HDel(ctx, s.key(namespace), keys...).Err()
}
