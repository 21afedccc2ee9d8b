package tracking

import "fmt"

// EventType is the closed set of interactions the capture client can emit.
// The stored codes are stable and must not be renumbered: rows written with
// an older binary still need to decode.
type EventType int

const (
	EventTypeClick    EventType = 1
	EventTypeInput    EventType = 2
	EventTypePageView EventType = 3
)

// wireTypes maps the wire value from the capture client to the internal type.
// The wire spells "pageview" while the internal tag is "page_view"; the two
// spellings are intentional and must both survive.
var wireTypes = map[string]EventType{
	"click":    EventTypeClick,
	"input":    EventTypeInput,
	"pageview": EventTypePageView,
}

// ParseWireType resolves a wire type string to its EventType.
// Returns false for anything outside the closed set.
func ParseWireType(s string) (EventType, bool) {
	t, ok := wireTypes[s]
	return t, ok
}

// EventTypeFromCode resolves a stored integer code back to an EventType.
func EventTypeFromCode(code int) (EventType, bool) {
	switch EventType(code) {
	case EventTypeClick, EventTypeInput, EventTypePageView:
		return EventType(code), true
	}
	return 0, false
}

// String returns the internal tag name, not the wire value.
func (t EventType) String() string {
	switch t {
	case EventTypeClick:
		return "click"
	case EventTypeInput:
		return "input"
	case EventTypePageView:
		return "page_view"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// MarshalJSON serializes the internal tag name so API responses carry
// "page_view" rather than a bare integer code.
func (t EventType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}
