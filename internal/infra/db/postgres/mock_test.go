//go:build !integration

package postgres

import (
	"context"
	"time"

	"meditation-premium-service/internal/domain/model"
	"meditation-premium-service/internal/domain/ports/repository"
	red "meditation-premium-service/internal/infra/redis"
)

// --- Mocks for cache decorator tests ---

// mockInnerUserRepo mocks the database repository that the decorator wraps.
type mockInnerUserRepo struct {
	FindByIDFunc       func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	ListFunc           func(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error)
	InsertFunc         func(ctx context.Context, tx repository.Tx, u *model.User) error
	CreateIfAbsentFunc func(ctx context.Context, tx repository.Tx, u *model.User) error
	SaveFunc           func(ctx context.Context, tx repository.Tx, u *model.User) error
	DeleteFunc         func(ctx context.Context, tx repository.Tx, id string) error
	SetLastPlayedFunc  func(ctx context.Context, tx repository.Tx, userID string, meditationID int64) error
}

func (m *mockInnerUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	return m.ListFunc(ctx, tx, offset, limit)
}
func (m *mockInnerUserRepo) Insert(ctx context.Context, tx repository.Tx, u *model.User) error {
	return m.InsertFunc(ctx, tx, u)
}
func (m *mockInnerUserRepo) CreateIfAbsent(ctx context.Context, tx repository.Tx, u *model.User) error {
	return m.CreateIfAbsentFunc(ctx, tx, u)
}
func (m *mockInnerUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	return m.SaveFunc(ctx, tx, u)
}
func (m *mockInnerUserRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return m.DeleteFunc(ctx, tx, id)
}
func (m *mockInnerUserRepo) SetLastPlayed(ctx context.Context, tx repository.Tx, userID string, meditationID int64) error {
	return m.SetLastPlayedFunc(ctx, tx, userID, meditationID)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc func(ctx context.Context, keys ...string) error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error    { return nil }
func (m *mockRedisClient) FlushDB(ctx context.Context) error { return nil }
func (m *mockRedisClient) Close() error                      { return nil }
