package tracking

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseWireType(t *testing.T) {
	tests := []struct {
		wire   string
		want   EventType
		wantOK bool
	}{
		{"click", EventTypeClick, true},
		{"input", EventTypeInput, true},
		{"pageview", EventTypePageView, true},
		{"page_view", 0, false}, // internal tag is not a wire value
		{"bogus", 0, false},
		{"", 0, false},
		{"CLICK", 0, false},
	}

	for _, tc := range tests {
		got, ok := ParseWireType(tc.wire)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ParseWireType(%q) = (%v, %v), want (%v, %v)", tc.wire, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestEventTypeString(t *testing.T) {
	if got := EventTypePageView.String(); got != "page_view" {
		t.Errorf("pageview tag = %q, want page_view", got)
	}
	if got := EventTypeClick.String(); got != "click" {
		t.Errorf("click tag = %q, want click", got)
	}
	if got := EventTypeInput.String(); got != "input" {
		t.Errorf("input tag = %q, want input", got)
	}
}

func TestEventTypeFromCode(t *testing.T) {
	for code, want := range map[int]EventType{1: EventTypeClick, 2: EventTypeInput, 3: EventTypePageView} {
		got, ok := EventTypeFromCode(code)
		if !ok || got != want {
			t.Errorf("EventTypeFromCode(%d) = (%v, %v), want (%v, true)", code, got, ok, want)
		}
	}
	if _, ok := EventTypeFromCode(0); ok {
		t.Error("EventTypeFromCode(0) should fail")
	}
	if _, ok := EventTypeFromCode(4); ok {
		t.Error("EventTypeFromCode(4) should fail")
	}
}

func TestEventTypeMarshalJSON(t *testing.T) {
	b, err := json.Marshal(EventTypePageView)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"page_view"` {
		t.Errorf("marshal = %s, want \"page_view\"", b)
	}
}

func TestNewEvent_TimestampConversion(t *testing.T) {
	// 1700000000000 ms -> 1700000000 s, sub-second precision discarded.
	ev := NewEvent(EventTypePageView, 1700000000000, "abc123", nil, map[string]any{"url": "/"})

	want := time.Unix(1700000000, 0).UTC()
	if !ev.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", ev.Timestamp, want)
	}
	if ev.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp location = %v, want UTC", ev.Timestamp.Location())
	}

	// Truncation, not rounding.
	ev = NewEvent(EventTypeClick, 1700000000999, "abc123", nil, nil)
	if !ev.Timestamp.Equal(want) {
		t.Errorf("999ms remainder should truncate: got %v, want %v", ev.Timestamp, want)
	}
}

func TestEventResult(t *testing.T) {
	userID := int64(42)
	ev := NewEvent(EventTypePageView, 1700000000000, "abc123", &userID, map[string]any{"url": "/"})
	ev.ID = 7

	res := ev.Result()
	if res.ID != 7 {
		t.Errorf("ID = %d, want 7", res.ID)
	}
	if res.Type != "page_view" {
		t.Errorf("Type = %q, want page_view", res.Type)
	}
	if res.SessionID != "abc123" {
		t.Errorf("SessionID = %q, want abc123", res.SessionID)
	}
	if res.Timestamp != "2023-11-14 22:13:20" {
		t.Errorf("Timestamp = %q, want 2023-11-14 22:13:20", res.Timestamp)
	}
}
