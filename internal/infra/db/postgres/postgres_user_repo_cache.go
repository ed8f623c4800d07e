package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meditation-premium-service/internal/domain/model"
	"meditation-premium-service/internal/domain/ports/repository"
	"meditation-premium-service/internal/infra/metrics"
	red "meditation-premium-service/internal/infra/redis"
)

var _ repository.UserRepository = (*userRepoCacheDecorator)(nil)

// userRepoCacheDecorator is a read-through cache for single-user lookups.
// The entitlement gate hits FindByID on every content read, so that is
// the only path worth caching. Listings always go to the store.
type userRepoCacheDecorator struct {
	inner repository.UserRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewUserRepoCacheDecorator(inner repository.UserRepository, cache red.RedisClient, ttl time.Duration) repository.UserRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &userRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func userCacheKey(id string) string { return fmt.Sprintf("user:id:%s", id) }

func (d *userRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	// Transactional reads must see the transaction's own view, never a cache.
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}

	key := userCacheKey(id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var user model.User
		if json.Unmarshal([]byte(val), &user) == nil {
			metrics.IncCacheRequest("user", "hit")
			return &user, nil
		}
	}

	metrics.IncCacheRequest("user", "miss")
	user, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(user); err == nil {
		_ = d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return user, nil
}

func (d *userRepoCacheDecorator) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	return d.inner.List(ctx, tx, offset, limit)
}

// Write operations invalidate before delegating.

func (d *userRepoCacheDecorator) Insert(ctx context.Context, tx repository.Tx, u *model.User) error {
	_ = d.cache.Del(ctx, userCacheKey(u.ID))
	return d.inner.Insert(ctx, tx, u)
}

func (d *userRepoCacheDecorator) CreateIfAbsent(ctx context.Context, tx repository.Tx, u *model.User) error {
	_ = d.cache.Del(ctx, userCacheKey(u.ID))
	return d.inner.CreateIfAbsent(ctx, tx, u)
}

func (d *userRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	_ = d.cache.Del(ctx, userCacheKey(u.ID))
	return d.inner.Save(ctx, tx, u)
}

func (d *userRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	_ = d.cache.Del(ctx, userCacheKey(id))
	return d.inner.Delete(ctx, tx, id)
}

func (d *userRepoCacheDecorator) SetLastPlayed(ctx context.Context, tx repository.Tx, userID string, meditationID int64) error {
	_ = d.cache.Del(ctx, userCacheKey(userID))
	return d.inner.SetLastPlayed(ctx, tx, userID, meditationID)
}
