package models

const (
	StatusPending = "pending"
	StatusSynced  = "synced"
	StatusFailed  = "failed"
)

const (
	// CategoryBeauty and CategoryFitness are the service categories the
	// booking front end currently emits. Opaque to the sync engine.
	CategoryBeauty  = "beauty"
	CategoryFitness = "fitness"
)

const (
	// StorageKey is the well-known key the serialized queue snapshot lives
	// under, regardless of the storage backend.
	StorageKey = "mariiahub:offline_bookings"

	// DefaultRetentionSeconds keeps a synced record visible long enough for
	// the confirmation surface to render before the purge drops it.
	DefaultRetentionSeconds = 5

	// DefaultSubmitTimeoutSeconds bounds a single remote submission.
	DefaultSubmitTimeoutSeconds = 10

	// DefaultSettleSeconds is how long connectivity must hold before an
	// online/offline transition is reported.
	DefaultSettleSeconds = 2

	// DefaultProbeIntervalSeconds between connectivity checks.
	DefaultProbeIntervalSeconds = 5
)
