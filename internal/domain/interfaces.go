package domain

import (
	"context"
	"time"

	"mariiahub/internal/models"
)

// DurableStore persists the queue snapshot under a well-known storage key.
// Load returns nil data when no snapshot exists yet.
type DurableStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// BookingQueue is the canonical owner of all booking records.
type BookingQueue interface {
	Append(ctx context.Context, record *models.BookingRecord) error
	List(ctx context.Context) ([]models.BookingRecord, error)
	Pending(ctx context.Context) ([]models.BookingRecord, error)
	Failed(ctx context.Context) ([]models.BookingRecord, error)
	Update(ctx context.Context, id string, mutate func(*models.BookingRecord)) error
	Retry(ctx context.Context, id string) error
	PurgeSynced(ctx context.Context, olderThan time.Duration) (int, error)
}

// Submitter sends one booking record to the remote sync endpoint. Any error
// return, transport or server rejection alike, counts as a failed submission.
type Submitter interface {
	Submit(ctx context.Context, record *models.BookingRecord) error
}

// ConnectivityProvider answers whether the device currently looks online.
// Implementations wrap the platform primitive so the monitor stays testable.
type ConnectivityProvider interface {
	Check(ctx context.Context) bool
}

// AlertKind classifies notifier messages.
type AlertKind string

const (
	AlertInfo  AlertKind = "info"
	AlertWarn  AlertKind = "warn"
	AlertError AlertKind = "error"
)

// Notifier is the externally supplied alert surface. Rendering is not our
// concern; the engine only reports transitions and summaries.
type Notifier interface {
	Notify(kind AlertKind, message string, data map[string]interface{})
}

// AlertSurface is what the sync engine reports transitions to. The notify
// package adapts it onto a Notifier; UIs plug in behind that.
type AlertSurface interface {
	ConnectionLost(pendingCount int, offlineFor time.Duration)
	ConnectionRestored(pendingCount int)
	SyncCompleted(synced, failed int)
}

// EventPublisher mirrors the events.EventBus publishing side.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
