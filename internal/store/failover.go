package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"mariiahub/internal/domain"
)

// recoveryInterval is how long the failover waits before probing a downed
// primary again.
const recoveryInterval = time.Minute

// FailoverStore wraps a primary backend with a fallback. After a primary
// failure all traffic goes to the fallback until a later Load successfully
// probes the primary back to health.
type FailoverStore struct {
	primary   domain.DurableStore
	fallback  domain.DurableStore
	logger    *zerolog.Logger
	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverStore(primary, fallback domain.DurableStore, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverStore) markDown(err error) {
	s.logger.Error().Err(err).Msg("Primary store failed, falling back")
	s.isDown.Store(true)
	s.mu.Lock()
	s.lastCheck = time.Now()
	s.mu.Unlock()
}

func (s *FailoverStore) shouldProbe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Since(s.lastCheck) <= recoveryInterval {
		return false
	}
	s.lastCheck = time.Now()
	return true
}

func (s *FailoverStore) Load(ctx context.Context) ([]byte, error) {
	if !s.isDown.Load() {
		data, err := s.primary.Load(ctx)
		if err == nil {
			return data, nil
		}
		s.markDown(err)
	} else if s.shouldProbe() {
		data, err := s.primary.Load(ctx)
		if err == nil {
			s.isDown.Store(false)
			s.logger.Info().Msg("Primary store recovered")
			return data, nil
		}
	}

	return s.fallback.Load(ctx)
}

func (s *FailoverStore) Save(ctx context.Context, data []byte) error {
	if !s.isDown.Load() {
		err := s.primary.Save(ctx, data)
		if err == nil {
			return nil
		}
		s.markDown(err)
	}

	return s.fallback.Save(ctx, data)
}
