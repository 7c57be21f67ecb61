package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mariiahub/internal/domain"
)

// Monitor polls a ConnectivityProvider and reports genuine state edges.
// A transition is committed only after the observed state holds for the
// settle window, which filters out network flaps and captive-portal blips.
// The monitor keeps no persisted state: the initial state is recomputed
// live on Start and is not reported as a transition.
type Monitor struct {
	provider domain.ConnectivityProvider
	interval time.Duration
	settle   time.Duration
	logger   *zerolog.Logger

	mu        sync.Mutex
	online    bool
	onOnline  []func()
	onOffline []func()
}

func NewMonitor(provider domain.ConnectivityProvider, interval, settle time.Duration, logger *zerolog.Logger) *Monitor {
	if interval <= 0 {
		interval = time.Second
	}
	return &Monitor{
		provider: provider,
		interval: interval,
		settle:   settle,
		logger:   logger,
	}
}

// OnOnline registers a callback fired exactly once per offline→online edge.
// Register before Start.
func (m *Monitor) OnOnline(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onOnline = append(m.onOnline, fn)
}

// OnOffline registers a callback fired exactly once per online→offline edge.
func (m *Monitor) OnOffline(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onOffline = append(m.onOffline, fn)
}

// Online reports the last committed state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Start blocks until ctx is done, polling the provider. Run it in its own
// goroutine.
func (m *Monitor) Start(ctx context.Context) {
	initial := m.provider.Check(ctx)
	m.mu.Lock()
	m.online = initial
	m.mu.Unlock()
	m.logger.Info().Bool("online", initial).Msg("Connectivity monitor started")

	var candidate bool
	var candidateSince time.Time

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		observed := m.provider.Check(ctx)
		current := m.Online()

		if observed == current {
			candidateSince = time.Time{}
			continue
		}

		now := time.Now()
		if candidateSince.IsZero() || candidate != observed {
			candidate = observed
			candidateSince = now
		}
		if now.Sub(candidateSince) < m.settle {
			continue
		}

		m.commit(observed)
		candidateSince = time.Time{}
	}
}

func (m *Monitor) commit(online bool) {
	m.mu.Lock()
	m.online = online
	var callbacks []func()
	if online {
		callbacks = append(callbacks, m.onOnline...)
	} else {
		callbacks = append(callbacks, m.onOffline...)
	}
	m.mu.Unlock()

	m.logger.Info().Bool("online", online).Msg("Connectivity changed")
	for _, fn := range callbacks {
		fn()
	}
}
