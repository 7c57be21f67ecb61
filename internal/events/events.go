package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventBookingQueued       = "booking_queued"
	EventBookingSynced       = "booking_synced"
	EventBookingSyncFailed   = "booking_sync_failed"
	EventSyncCompleted       = "sync_completed"
	EventConnectivityChanged = "connectivity_changed"
)

// BookingEventPayload is the minimal booking snapshot event consumers see.
type BookingEventPayload struct {
	BookingID       string    `json:"booking_id"`
	ServiceCategory string    `json:"service_category"`
	ServiceName     string    `json:"service_name"`
	Status          string    `json:"status"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	Error           string    `json:"error,omitempty"`
}

// SyncSummaryPayload describes the outcome of one full drain pass.
type SyncSummaryPayload struct {
	Total  int `json:"total"`
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// ConnectivityPayload reports an online/offline edge.
type ConnectivityPayload struct {
	Online bool `json:"online"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
