// Package sealed encrypts values on their way into a ports.TokenStorage.
package sealed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/internal/cryptoutil"
	"github.com/wiqayah/admin-console/internal/ports"
)

var _ ports.TokenStorage = (*Storage)(nil)

// Storage wraps another TokenStorage. Values that cannot be opened (for
// example after a key change) read as missing, which signs the browser out.
type Storage struct {
	inner  ports.TokenStorage
	enc    cryptoutil.Encryptor
	logger *zap.Logger
}

// New wraps inner with enc.
func New(inner ports.TokenStorage, enc cryptoutil.Encryptor, logger *zap.Logger) *Storage {
	if inner == nil || enc == nil {
		panic("sealed: storage and encryptor are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{inner: inner, enc: enc, logger: logger}
}

func (s *Storage) Get(ctx context.Context, namespace, key string) (string, error) {
	raw, err := s.inner.Get(ctx, namespace, key)
	if err != nil {
		return "", err
	}
	v, err := s.enc.Decrypt(raw)
	if err != nil {
		s.logger.Warn("discarding unreadable stored value", zap.String("key", key), zap.Error(err))
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (s *Storage) Set(ctx context.Context, namespace, key, value string, ttl time.Duration) error {
	sealed, err := s.enc.Encrypt(value)
	if err != nil {
		return fmt.Errorf("seal stored value: %w", err)
	}
	return s.inner.Set(ctx, namespace, key, sealed, ttl)
}

func (s *Storage) Remove(ctx context.Context, namespace string, keys ...string) error {
	return s.inner.Remove(ctx, namespace, keys...)
}
