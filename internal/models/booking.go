package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientInfo is contact data attached to a booking. The sync engine never
// interprets these fields, they travel to the server as-is.
type ClientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingRecord is the unit of work of the offline queue. One record per
// user booking action; records are matched by ID only, never by content.
type BookingRecord struct {
	ID              string     `json:"id"`
	ServiceCategory string     `json:"serviceCategory"`
	ServiceName     string     `json:"serviceName"`
	ScheduledAt     time.Time  `json:"scheduledAt"`
	ClientInfo      ClientInfo `json:"clientInfo"`
	Status          string     `json:"status"` // pending, synced, failed
	CreatedAt       time.Time  `json:"createdAt"`
	SyncedAt        *time.Time `json:"syncedAt,omitempty"`
}

// NewBookingRecord builds a pending record with a fresh client-side ID.
func NewBookingRecord(category, service string, scheduledAt time.Time, client ClientInfo) *BookingRecord {
	return &BookingRecord{
		ID:              uuid.NewString(),
		ServiceCategory: category,
		ServiceName:     service,
		ScheduledAt:     scheduledAt,
		ClientInfo:      client,
		Status:          StatusPending,
		CreatedAt:       time.Now(),
	}
}

// MarkSynced flips the record to synced and stamps the transition time used
// by the retention purge.
func (r *BookingRecord) MarkSynced(at time.Time) {
	r.Status = StatusSynced
	r.SyncedAt = &at
}

// MarkFailed flips the record to failed. A manual retry may bring it back
// to pending later.
func (r *BookingRecord) MarkFailed() {
	r.Status = StatusFailed
	r.SyncedAt = nil
}
