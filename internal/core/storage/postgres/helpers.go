package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/opentrail-lab/opentrail/internal/tracking"
)

// marshalDetails serializes the event's raw payload for the JSONB column.
// Details are stored verbatim; an empty payload becomes an empty object,
// never SQL NULL, so the column stays non-nullable.
func marshalDetails(event *tracking.Event) ([]byte, error) {
	if event.Details == nil {
		return []byte("{}"), nil
	}
	detailsJSON, err := json.Marshal(event.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal details: %w", err)
	}
	return detailsJSON, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEventRow scans a database row into a tracking.Event.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanEventRow(row scanner) (*tracking.Event, error) {
	var (
		evt         tracking.Event
		typeCode    int
		userID      sql.NullInt64
		detailsJSON []byte
	)

	err := row.Scan(
		&evt.ID,
		&typeCode,
		&evt.Timestamp,
		&evt.SessionID,
		&userID,
		&detailsJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan event row: %w", err)
	}

	typ, ok := tracking.EventTypeFromCode(typeCode)
	if !ok {
		return nil, fmt.Errorf("unknown stored event type code %d", typeCode)
	}
	evt.Type = typ
	evt.Timestamp = evt.Timestamp.UTC()

	if userID.Valid {
		v := userID.Int64
		evt.UserID = &v
	}

	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &evt.Details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal details: %w", err)
		}
	}

	return &evt, nil
}
