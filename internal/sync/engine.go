// Package sync drives pending booking records to the remote endpoint
// whenever connectivity allows. At most one drain pass runs at a time;
// per-item failures never abort a pass.
package sync

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"mariiahub/internal/domain"
	"mariiahub/internal/events"
	"mariiahub/internal/metrics"
	"mariiahub/internal/models"
)

// ErrSyncInProgress signals that a trigger arrived while a pass was active.
// Trigger paths ignore it; it is not worth surfacing to the user.
var ErrSyncInProgress = errors.New("sync already in progress")

// Summary is the outcome of one drain pass.
type Summary struct {
	Total  int
	Synced int
	Failed int
}

// ProgressFunc observes drain progress: done counts attempted records,
// successes and failures alike.
type ProgressFunc func(done, total int)

// Engine owns no record state beyond the run guard; the queue is the single
// source of truth and the engine mutates records only through it.
type Engine struct {
	queue     domain.BookingQueue
	submitter domain.Submitter
	alerts    domain.AlertSurface
	bus       domain.EventPublisher
	logger    *zerolog.Logger

	submitTimeout time.Duration
	retention     time.Duration
	progress      ProgressFunc

	syncing atomic.Bool
}

func NewEngine(
	q domain.BookingQueue,
	submitter domain.Submitter,
	alerts domain.AlertSurface,
	bus domain.EventPublisher,
	submitTimeout, retention time.Duration,
	logger *zerolog.Logger,
) *Engine {
	if submitTimeout <= 0 {
		submitTimeout = models.DefaultSubmitTimeoutSeconds * time.Second
	}
	if retention <= 0 {
		retention = models.DefaultRetentionSeconds * time.Second
	}
	return &Engine{
		queue:         q,
		submitter:     submitter,
		alerts:        alerts,
		bus:           bus,
		submitTimeout: submitTimeout,
		retention:     retention,
		logger:        logger,
	}
}

// SetProgress installs the progress observer. Call before the first trigger.
func (e *Engine) SetProgress(fn ProgressFunc) {
	e.progress = fn
}

// Trigger starts a drain pass in the background. Safe to call from the
// connectivity monitor's callback; re-entrant triggers are dropped by the
// run guard.
func (e *Engine) Trigger(ctx context.Context) {
	go func() {
		if _, err := e.Sync(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
			e.logger.Error().Err(err).Msg("Sync pass failed")
		}
	}()
}

// Sync drains the queue once: every pending record is submitted in creation
// order, marked synced or failed, and a summary is reported. Returns
// ErrSyncInProgress when a pass is already active.
func (e *Engine) Sync(ctx context.Context) (Summary, error) {
	if !e.syncing.CompareAndSwap(false, true) {
		return Summary{}, ErrSyncInProgress
	}
	defer e.syncing.Store(false)

	pending, err := e.queue.Pending(ctx)
	if err != nil {
		return Summary{}, err
	}

	total := len(pending)
	metrics.SetQueueDepth(total)
	if total == 0 {
		e.logger.Debug().Msg("Nothing to sync")
		return Summary{}, nil
	}

	e.logger.Info().Int("pending", total).Msg("Sync pass started")

	summary := Summary{Total: total}
	for i := range pending {
		rec := pending[i]

		if ctx.Err() != nil {
			break
		}

		itemCtx, cancel := context.WithTimeout(ctx, e.submitTimeout)
		submitErr := e.submitter.Submit(itemCtx, &rec)
		cancel()

		// Torn down mid-flight: the outcome was never observed, so the
		// record stays pending for the next trigger.
		if submitErr != nil && ctx.Err() != nil {
			e.logger.Warn().Str("booking_id", rec.ID).Msg("Sync interrupted, record stays pending")
			break
		}

		if submitErr != nil {
			summary.Failed++
			if err := e.markFailed(ctx, &rec, submitErr); err != nil {
				return summary, err
			}
		} else {
			summary.Synced++
			if err := e.markSynced(ctx, &rec); err != nil {
				return summary, err
			}
		}

		if e.progress != nil {
			e.progress(summary.Synced+summary.Failed, total)
		}
	}

	metrics.IncSyncRun()
	metrics.AddSynced(summary.Synced)
	metrics.AddFailed(summary.Failed)
	metrics.SetQueueDepth(total - summary.Synced - summary.Failed)

	// Host teardown mid-run: skip the summary alert and the purge, the
	// remaining records are picked up on the next trigger.
	if ctx.Err() != nil {
		e.logger.Warn().Int("attempted", summary.Synced+summary.Failed).Int("total", total).Msg("Sync pass interrupted")
		return summary, ctx.Err()
	}

	e.logger.Info().
		Int("total", summary.Total).
		Int("synced", summary.Synced).
		Int("failed", summary.Failed).
		Msg("Sync pass finished")

	if e.alerts != nil {
		e.alerts.SyncCompleted(summary.Synced, summary.Failed)
	}
	if e.bus != nil {
		_ = e.bus.PublishJSON(events.EventSyncCompleted, events.SyncSummaryPayload{
			Total:  summary.Total,
			Synced: summary.Synced,
			Failed: summary.Failed,
		})
	}

	if summary.Synced > 0 {
		go e.purgeAfterRetention(ctx)
	}

	return summary, nil
}

// RetryRecord re-queues one failed record for the next pass.
func (e *Engine) RetryRecord(ctx context.Context, id string) error {
	return e.queue.Retry(ctx, id)
}

// Syncing reports whether a pass is currently active.
func (e *Engine) Syncing() bool {
	return e.syncing.Load()
}

func (e *Engine) markSynced(ctx context.Context, rec *models.BookingRecord) error {
	now := time.Now()
	if err := e.queue.Update(ctx, rec.ID, func(r *models.BookingRecord) {
		r.MarkSynced(now)
	}); err != nil {
		return err
	}

	e.logger.Debug().Str("booking_id", rec.ID).Msg("Booking synced")
	if e.bus != nil {
		_ = e.bus.PublishJSON(events.EventBookingSynced, events.BookingEventPayload{
			BookingID:       rec.ID,
			ServiceCategory: rec.ServiceCategory,
			ServiceName:     rec.ServiceName,
			Status:          models.StatusSynced,
			ScheduledAt:     rec.ScheduledAt,
		})
	}
	return nil
}

func (e *Engine) markFailed(ctx context.Context, rec *models.BookingRecord, cause error) error {
	if err := e.queue.Update(ctx, rec.ID, func(r *models.BookingRecord) {
		r.MarkFailed()
	}); err != nil {
		return err
	}

	e.logger.Warn().Err(cause).Str("booking_id", rec.ID).Msg("Booking sync failed")
	if e.bus != nil {
		_ = e.bus.PublishJSON(events.EventBookingSyncFailed, events.BookingEventPayload{
			BookingID:       rec.ID,
			ServiceCategory: rec.ServiceCategory,
			ServiceName:     rec.ServiceName,
			Status:          models.StatusFailed,
			ScheduledAt:     rec.ScheduledAt,
			Error:           cause.Error(),
		})
	}
	return nil
}

// purgeAfterRetention drops confirmed records once the retention window has
// given the confirmation surface time to render.
func (e *Engine) purgeAfterRetention(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(e.retention):
	}

	removed, err := e.queue.PurgeSynced(ctx, e.retention)
	if err != nil {
		e.logger.Error().Err(err).Msg("Purge of synced bookings failed")
		return
	}
	if removed > 0 {
		e.logger.Debug().Int("removed", removed).Msg("Synced bookings purged")
	}
}
