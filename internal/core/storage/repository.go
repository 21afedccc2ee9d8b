package storage

import (
	"context"

	"github.com/opentrail-lab/opentrail/internal/tracking"
)

// EventStore defines the interface for persisting and listing tracking events.
type EventStore interface {
	// SaveEvent makes the event durable and populates event.ID with the
	// store-assigned identity. Two identical payloads produce two distinct
	// rows; the store never deduplicates.
	SaveEvent(ctx context.Context, event *tracking.Event) error

	// ListBySession returns the most recent stored events for one session,
	// newest first.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*tracking.Event, error)
}
