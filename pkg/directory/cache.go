package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/havenlink/haven-engine/pkg/models"
)

// CachedDirectory wraps a Directory with a short-TTL Redis cache for
// category listings. Allocation and transfer both hit ListByCategory on
// the hot path; individual account lookups are not cached because they
// must reflect directory state at read time.
type CachedDirectory struct {
	inner  Directory
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedDirectory wraps inner with a Redis cache. If client is nil
// (Redis unconfigured), inner is returned unwrapped.
func NewCachedDirectory(inner Directory, client *redis.Client, ttl time.Duration, logger *zap.Logger) Directory {
	if client == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedDirectory{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.Named("directory-cache"),
	}
}

// ListByCategory returns the cached listing when fresh, falling through
// to the inner directory otherwise. Cache failures are logged and never
// fail the read.
func (d *CachedDirectory) ListByCategory(ctx context.Context, category models.Category) ([]models.Professional, error) {
	key := fmt.Sprintf("directory:professionals:%s", category)

	if data, err := d.client.Get(ctx, key).Bytes(); err == nil {
		var professionals []models.Professional
		if err := json.Unmarshal(data, &professionals); err == nil {
			return professionals, nil
		}
		// Corrupt entry: drop it and fall through to the directory.
		d.client.Del(ctx, key)
	} else if err != redis.Nil {
		d.logger.Warn("Directory cache read failed", zap.Error(err))
	}

	professionals, err := d.inner.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(professionals); err == nil {
		if err := d.client.Set(ctx, key, data, d.ttl).Err(); err != nil {
			d.logger.Warn("Directory cache write failed", zap.Error(err))
		}
	}

	return professionals, nil
}

// Get passes through to the inner directory.
func (d *CachedDirectory) Get(ctx context.Context, id uuid.UUID) (*models.Professional, error) {
	return d.inner.Get(ctx, id)
}

// GetUser passes through to the inner directory.
func (d *CachedDirectory) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return d.inner.GetUser(ctx, id)
}

// Ensure CachedDirectory implements Directory at compile time.
var _ Directory = (*CachedDirectory)(nil)
