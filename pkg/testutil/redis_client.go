package testutil

import (
	"context"

	"github.com/luvlist-lab/backend/pkg/xredis"
)

// MockRedisClient implements xredis.Client. Unset funcs behave as a cache
// miss rather than an error.
type MockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string) error
	DelFunc    func(ctx context.Context, key string) error
	IncrByFunc func(ctx context.Context, key string, value int64) error
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	return "", xredis.ErrNil
}

func (m *MockRedisClient) Set(ctx context.Context, key, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}

	return nil
}

func (m *MockRedisClient) Del(ctx context.Context, key string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key)
	}

	return nil
}

func (m *MockRedisClient) IncrBy(ctx context.Context, key string, value int64) error {
	if m.IncrByFunc != nil {
		return m.IncrByFunc(ctx, key, value)
	}

	return nil
}
