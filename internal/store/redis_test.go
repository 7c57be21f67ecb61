package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mariiahub/internal/config"
	"mariiahub/internal/models"
)

func TestRedisStore(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	store := NewRedisStore(client, models.StorageKey)
	ctx := context.Background()

	t.Run("LoadEmpty", func(t *testing.T) {
		data, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		payload := []byte(`[{"id":"b1"}]`)
		require.NoError(t, store.Save(ctx, payload))

		data, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, payload, data)
	})

	t.Run("NilClient", func(t *testing.T) {
		broken := NewRedisStore(nil, models.StorageKey)
		_, err := broken.Load(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")

		err = broken.Save(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})

	t.Run("Close", func(t *testing.T) {
		assert.NoError(t, Close(client))
	})
}

func TestNewRedisClient(t *testing.T) {
	client := NewRedisClient(config.RedisConfig{Address: "localhost:6379", DB: 1, PoolSize: 4})
	require.NotNil(t, client)
	assert.Equal(t, "localhost:6379", client.Options().Addr)
	assert.Equal(t, 1, client.Options().DB)
	client.Close()
}
