package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/infrastructure/config"
)

// IdempotencyStoreFactory builds an idempotency store from configuration,
// preferring Redis and optionally falling back to the in-memory store when
// Redis is unreachable.
type IdempotencyStoreFactory struct {
	cfg              config.RedisConfig
	logger           *zap.Logger
	inMemoryFallback bool
}

// NewIdempotencyStoreFactory creates a new factory. With allowFallback set,
// an unreachable Redis degrades to the in-memory store instead of failing.
func NewIdempotencyStoreFactory(cfg config.RedisConfig, logger *zap.Logger, allowFallback bool) *IdempotencyStoreFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdempotencyStoreFactory{
		cfg:              cfg,
		logger:           logger,
		inMemoryFallback: allowFallback,
	}
}

// CreateStore builds the store. Redis first; the in-memory fallback only
// protects a single instance, so the degradation is logged loudly.
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(f.cfg)
	if err == nil {
		f.logger.Info("using Redis idempotency store", zap.String("addr", f.cfg.Addr()))
		return store, nil
	}

	if !f.inMemoryFallback {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store; "+
		"duplicate payment references are only caught within this instance",
		zap.Error(err))
	return NewInMemoryIdempotencyStore(), nil
}
