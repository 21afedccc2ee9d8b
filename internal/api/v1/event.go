package v1

import (
	"encoding/json"
	"math"

	"github.com/opentrail-lab/opentrail/internal/tracking"
)

// Submission is the decoded tracking payload after defaulting.
// It separates the constrained envelope fields from Details, which keeps
// the entire raw payload (envelope included) as opaque data.
//
// Missing keys default to zero values before validation runs, so a missing
// field fails its own constraint ("must not be blank") rather than a
// separate missing-key error.
type Submission struct {
	// Type is the wire event type ("click", "input", "pageview").
	Type string

	// TimestampMillis is the client-clock epoch milliseconds.
	TimestampMillis int64

	// SessionID is the opaque client-generated session token.
	SessionID string

	// UserID is nil when absent or JSON null (anonymous).
	UserID *int64

	// Details is the full original payload, stored but never interpreted.
	Details map[string]any

	// present-but-malformed markers: a key that exists with a non-integer
	// value must fail its field's constraint, not silently default.
	timestampBad bool
	userIDBad    bool
}

// NewSubmission builds a Submission from a decoded JSON object.
// raw should be decoded with json.Decoder.UseNumber so integer detection
// is exact and Details round-trips without float mangling.
func NewSubmission(raw map[string]any) *Submission {
	s := &Submission{Details: raw}

	if v, ok := raw["type"].(string); ok {
		s.Type = v
	}
	if v, ok := raw["sessionId"].(string); ok {
		s.SessionID = v
	}

	if v, exists := raw["timestamp"]; exists {
		if n, ok := intFromJSON(v); ok {
			s.TimestampMillis = n
		} else {
			s.timestampBad = true
		}
	}

	if v, exists := raw["userId"]; exists && v != nil {
		if n, ok := intFromJSON(v); ok {
			s.UserID = &n
		} else {
			s.userIDBad = true
		}
	}

	return s
}

// Errors maps a field name to a human-readable message.
type Errors map[string]string

// Validation messages. The type message is part of the public contract.
const (
	MsgInvalidType      = "Invalid event type"
	MsgInvalidTimestamp = "Timestamp must be a positive integer"
	MsgBlankSessionID   = "Session id must not be blank"
	MsgInvalidUserID    = "User id must be a non-negative integer"
)

// rules is the ordered field-constraint list. Every rule is evaluated, so
// the response reports all violations at once instead of the first.
var rules = []struct {
	field   string
	ok      func(*Submission) bool
	message string
}{
	{"type", func(s *Submission) bool {
		_, ok := tracking.ParseWireType(s.Type)
		return ok
	}, MsgInvalidType},
	{"timestamp", func(s *Submission) bool {
		return !s.timestampBad && s.TimestampMillis > 0
	}, MsgInvalidTimestamp},
	{"sessionId", func(s *Submission) bool {
		return s.SessionID != ""
	}, MsgBlankSessionID},
	{"userId", func(s *Submission) bool {
		return !s.userIDBad && (s.UserID == nil || *s.UserID >= 0)
	}, MsgInvalidUserID},
}

// Validate checks the submission against the field constraints.
// Returns nil when the submission is acceptable.
func (s *Submission) Validate() Errors {
	var errs Errors
	for _, r := range rules {
		if !r.ok(s) {
			if errs == nil {
				errs = Errors{}
			}
			errs[r.field] = r.message
		}
	}
	return errs
}

// EventType returns the resolved internal type. Call only after Validate
// has accepted the submission.
func (s *Submission) EventType() tracking.EventType {
	t, _ := tracking.ParseWireType(s.Type)
	return t
}

// intFromJSON extracts an integral int64 from a decoded JSON value.
// Fractional numbers, overflows, and non-number types all fail.
func intFromJSON(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case float64:
		// Tolerated for callers that decoded without UseNumber.
		if n != math.Trunc(n) || n < math.MinInt64 || n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
