package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each bucket as a plain string value.
type RedisBackend struct {
	client redis.Cmdable
	prefix string
}

// NewRedisBackend returns a backend writing keys as prefix+bucket.
func NewRedisBackend(client redis.Cmdable, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) key(bucket string) string {
	return r.prefix + bucket
}

// Load implements Backend.
func (r *RedisBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Save implements Backend. Buckets never expire.
func (r *RedisBackend) Save(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, r.key(key), string(data), 0).Err()
}
