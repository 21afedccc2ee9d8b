package tracking

import "time"

// TimestampLayout is the calendar-time format used in ingestion responses.
const TimestampLayout = "2006-01-02 15:04:05"

// Event is the durable tracking record. It is constructed once at
// persistence time and never mutated afterward; ID is populated by the
// store on a successful write.
type Event struct {
	// ID is the store-assigned identity. Zero until SaveEvent succeeds.
	ID int64 `json:"id"`

	Type EventType `json:"type"`

	// Timestamp is the client timestamp truncated to whole seconds, UTC.
	// Sub-second precision is deliberately discarded.
	Timestamp time.Time `json:"timestamp"`

	// SessionID is the opaque client-generated token correlating events
	// from one browser storage instance. Not guaranteed unique across
	// devices.
	SessionID string `json:"sessionId"`

	// UserID is nil for anonymous sessions.
	UserID *int64 `json:"userId"`

	// Details is the entire raw request payload, stored verbatim and
	// never interpreted by this service.
	Details map[string]any `json:"details"`
}

// NewEvent builds the durable record from validated wire fields.
// timestampMillis is epoch milliseconds from the client clock; the division
// by 1000 truncates, matching the second-level precision of the store.
func NewEvent(typ EventType, timestampMillis int64, sessionID string, userID *int64, details map[string]any) *Event {
	return &Event{
		Type:      typ,
		Timestamp: time.Unix(timestampMillis/1000, 0).UTC(),
		SessionID: sessionID,
		UserID:    userID,
		Details:   details,
	}
}

// Result is the response body payload for an accepted event.
type Result struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
}

// Result summarizes a persisted event for the ingestion response.
func (e *Event) Result() Result {
	return Result{
		ID:        e.ID,
		Type:      e.Type.String(),
		SessionID: e.SessionID,
		Timestamp: e.Timestamp.Format(TimestampLayout),
	}
}
