package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisAdapter stores items as plain redis strings without expiry.
type RedisAdapter struct {
	client redis.Cmdable
	prefix string
	closer func() error
}

// NewRedisAdapter connects lazily to the redis server at addr. Every key is
// prefixed with prefix.
func NewRedisAdapter(addr, password string, db int, prefix string) *RedisAdapter {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	a := NewRedisAdapterFromClient(client, prefix)
	a.closer = client.Close
	return a
}

// NewRedisAdapterFromClient wraps an existing client (or cluster client).
// Closing the adapter does not close the client.
func NewRedisAdapterFromClient(client redis.Cmdable, prefix string) *RedisAdapter {
	return &RedisAdapter{client: client, prefix: prefix}
}

func (r *RedisAdapter) key(k string) string { return r.prefix + k }

func (r *RedisAdapter) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisAdapter) SetItem(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisAdapter) RemoveItem(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool when the adapter created it.
func (r *RedisAdapter) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
