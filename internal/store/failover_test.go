package store

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Load(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func TestFailoverStore(t *testing.T) {
	logger := zerolog.New(io.Discard)
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		primary := new(mockStore)
		fallback := new(mockStore)
		fs := NewFailoverStore(primary, fallback, &logger)

		primary.On("Load", ctx).Return([]byte("data"), nil).Once()

		data, err := fs.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []byte("data"), data)
		assert.False(t, fs.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackTakesOver", func(t *testing.T) {
		primary := new(mockStore)
		fallback := new(mockStore)
		fs := NewFailoverStore(primary, fallback, &logger)

		primary.On("Load", ctx).Return(nil, errors.New("down")).Once()
		fallback.On("Load", ctx).Return([]byte("fb"), nil).Once()

		data, err := fs.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []byte("fb"), data)
		assert.True(t, fs.isDown.Load())

		// While marked down, primary is not called again inside the
		// recovery interval.
		fallback.On("Load", ctx).Return([]byte("fb2"), nil).Once()
		data, err = fs.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []byte("fb2"), data)

		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("RecoveryProbe", func(t *testing.T) {
		primary := new(mockStore)
		fallback := new(mockStore)
		fs := NewFailoverStore(primary, fallback, &logger)
		fs.isDown.Store(true)
		fs.lastCheck = time.Now().Add(-2 * time.Minute)

		primary.On("Load", ctx).Return([]byte("back"), nil).Once()

		data, err := fs.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []byte("back"), data)
		assert.False(t, fs.isDown.Load())
		primary.AssertExpectations(t)
	})

	t.Run("SaveFailover", func(t *testing.T) {
		primary := new(mockStore)
		fallback := new(mockStore)
		fs := NewFailoverStore(primary, fallback, &logger)

		payload := []byte("snapshot")
		primary.On("Save", ctx, payload).Return(errors.New("down")).Once()
		fallback.On("Save", ctx, payload).Return(nil).Once()

		err := fs.Save(ctx, payload)
		assert.NoError(t, err)
		assert.True(t, fs.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})
}
