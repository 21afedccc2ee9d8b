package postgres

// SQL queries for tracking event storage.

const (
	// querySaveEvent inserts one event and retrieves the auto-generated
	// identity. There is no conflict target: identical payloads are
	// distinct events by contract.
	querySaveEvent = `
		INSERT INTO tracking_events (
			type, occurred_at, session_id, user_id, details
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	// queryListBySession fetches the most recent events for one session,
	// newest first. The identity is monotonic per insert order, so
	// ordering by id matches ingestion order on this instance.
	queryListBySession = `
		SELECT
			id, type, occurred_at, session_id, user_id, details
		FROM tracking_events
		WHERE session_id = $1
		ORDER BY id DESC
		LIMIT $2
	`
)
