// Package queue implements the local durable booking queue. It owns the
// canonical copy of all booking records and persists a full snapshot after
// every mutation, so a reload always observes a consistent record set.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mariiahub/internal/domain"
	"mariiahub/internal/models"
	"mariiahub/internal/store"
)

// ErrNotFound is returned by Retry when the record does not exist.
var ErrNotFound = errors.New("booking record not found")

// Queue is safe for concurrent use. Mutations are committed in memory only
// after the snapshot write succeeded, so a StorageError leaves the queue
// unchanged.
type Queue struct {
	store  domain.DurableStore
	logger *zerolog.Logger

	mu      sync.Mutex
	records []models.BookingRecord
}

// New loads the persisted snapshot and returns a ready queue.
func New(ctx context.Context, st domain.DurableStore, logger *zerolog.Logger) (*Queue, error) {
	q := &Queue{store: st, logger: logger}

	data, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &q.records); err != nil {
			return nil, &store.StorageError{Op: "load", Err: err}
		}
	}

	logger.Info().Int("records", len(q.records)).Msg("Booking queue loaded")
	return q, nil
}

// persist writes the candidate record set and commits it on success.
// Callers must hold q.mu.
func (q *Queue) persist(ctx context.Context, candidate []models.BookingRecord) error {
	data, err := json.Marshal(candidate)
	if err != nil {
		return &store.StorageError{Op: "save", Err: err}
	}
	if err := q.store.Save(ctx, data); err != nil {
		return err
	}
	q.records = candidate
	return nil
}

// Append inserts a new record at the tail of the queue. Missing status and
// creation time are filled in, matching the uniform write path used both
// online and offline.
func (q *Queue) Append(ctx context.Context, record *models.BookingRecord) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	rec := *record
	if rec.Status == "" {
		rec.Status = models.StatusPending
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	candidate := append(q.snapshotLocked(), rec)
	if err := q.persist(ctx, candidate); err != nil {
		return err
	}

	q.logger.Debug().Str("booking_id", rec.ID).Str("service", rec.ServiceName).Msg("Booking queued")
	return nil
}

// List returns all records in stable insertion order.
func (q *Queue) List(ctx context.Context) ([]models.BookingRecord, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked(), nil
}

// Pending returns records awaiting sync, in creation order.
func (q *Queue) Pending(ctx context.Context) ([]models.BookingRecord, error) {
	return q.filtered(models.StatusPending), nil
}

// Failed returns records whose last sync attempt did not succeed.
func (q *Queue) Failed(ctx context.Context) ([]models.BookingRecord, error) {
	return q.filtered(models.StatusFailed), nil
}

// Update atomically applies mutate to one record. Absent ids are a no-op.
func (q *Queue) Update(ctx context.Context, id string, mutate func(*models.BookingRecord)) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.indexLocked(id)
	if idx < 0 {
		return nil
	}

	candidate := q.snapshotLocked()
	mutate(&candidate[idx])
	return q.persist(ctx, candidate)
}

// Retry flips one failed record back to pending so the next sync run picks
// it up. Records in any other state are left untouched.
func (q *Queue) Retry(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	if q.records[idx].Status != models.StatusFailed {
		return nil
	}

	candidate := q.snapshotLocked()
	candidate[idx].Status = models.StatusPending
	candidate[idx].SyncedAt = nil
	if err := q.persist(ctx, candidate); err != nil {
		return err
	}

	q.logger.Info().Str("booking_id", id).Msg("Failed booking re-queued for sync")
	return nil
}

// PurgeSynced drops records that have been synced for longer than olderThan
// and reports how many were removed. Fresh synced records stay visible so
// the confirmation surface can render them.
func (q *Queue) PurgeSynced(ctx context.Context, olderThan time.Duration) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	candidate := make([]models.BookingRecord, 0, len(q.records))
	removed := 0
	for _, rec := range q.records {
		if rec.Status == models.StatusSynced && rec.SyncedAt != nil && rec.SyncedAt.Before(cutoff) {
			removed++
			continue
		}
		candidate = append(candidate, rec)
	}

	if removed == 0 {
		return 0, nil
	}
	if err := q.persist(ctx, candidate); err != nil {
		return 0, err
	}

	q.logger.Debug().Int("removed", removed).Msg("Purged confirmed bookings")
	return removed, nil
}

// OldestPendingAge reports how long the oldest pending record has been
// waiting. Zero when nothing is pending. Backs the "offline for N minutes"
// indicator.
func (q *Queue) OldestPendingAge() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()

	var oldest time.Time
	for _, rec := range q.records {
		if rec.Status != models.StatusPending {
			continue
		}
		if oldest.IsZero() || rec.CreatedAt.Before(oldest) {
			oldest = rec.CreatedAt
		}
	}
	if oldest.IsZero() {
		return 0
	}
	return time.Since(oldest)
}

func (q *Queue) filtered(status string) []models.BookingRecord {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []models.BookingRecord
	for _, rec := range q.records {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out
}

func (q *Queue) snapshotLocked() []models.BookingRecord {
	out := make([]models.BookingRecord, len(q.records))
	copy(out, q.records)
	return out
}

func (q *Queue) indexLocked(id string) int {
	for i := range q.records {
		if q.records[i].ID == id {
			return i
		}
	}
	return -1
}
