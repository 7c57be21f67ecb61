package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"mariiahub/internal/config"
)

// RedisStore keeps the snapshot under the storage key in Redis. Useful when
// the kiosk devices share a local Redis and the queue must outlive a single
// process.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisClient builds a Redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	if s.client == nil {
		return nil, storageErr("load", fmt.Errorf("redis client is nil"))
	}
	val, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("load", err)
	}
	return val, nil
}

func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	if s.client == nil {
		return storageErr("save", fmt.Errorf("redis client is nil"))
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return storageErr("save", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
