package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	v1 "github.com/opentrail-lab/opentrail/internal/api/v1"
	httperr "github.com/opentrail-lab/opentrail/internal/core/errors"
	"github.com/opentrail-lab/opentrail/internal/realtime"
	"github.com/opentrail-lab/opentrail/internal/tracking"

	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// ingestionError carries the structured HTTP error shape from a helper back
// to the orchestrator. Helpers return this instead of writing to gin.Context
// directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	field      string
	message    string
}

func (e *ingestionError) Error() string {
	return e.message
}

// TrackHandler handles HTTP POST requests for event ingestion.
//
// The request moves through validate -> persist -> broadcast. Validation
// failure stops the request before any side effect; a persistence failure is
// fatal for the request; a broadcast failure is logged and absorbed, since
// the event is already durable.
func (s *Service) TrackHandler(c *gin.Context) {
	sub, payloadSize, err := s.parseSubmission(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if errs := sub.Validate(); errs != nil {
		slog.Warn("Event validation failed",
			"errors", map[string]string(errs),
			"payload_size", payloadSize)
		c.JSON(http.StatusBadRequest, httperr.Fields(errs))
		return
	}

	slog.Info("Received event",
		"event_type", sub.Type,
		"session_id", sub.SessionID,
		"payload_size", payloadSize)

	result, err := s.processEvent(c.Request.Context(), sub)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// parseSubmission reads the raw request body and decodes it into a
// Submission with defaulting applied. Returns the raw payload size for
// structured logging upstream.
func (s *Service) parseSubmission(c *gin.Context) (*v1.Submission, int, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			field:      httperr.FieldBody,
			message:    "Failed to read request body",
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			field:      httperr.FieldBody,
			message:    httperr.MsgBodyTooLarge,
		}
	}

	// UseNumber keeps client integers exact so the opaque details payload
	// re-encodes verbatim on broadcast.
	dec := json.NewDecoder(bytes.NewReader(bodyBytes))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			field:      httperr.FieldBody,
			message:    httperr.MsgInvalidJSON,
		}
	}

	return v1.NewSubmission(raw), len(bodyBytes), nil
}

// processEvent persists the validated submission and republishes its raw
// payload on the session topic. Persistence and broadcast are deliberately
// not transactional: a stored event whose broadcast failed is acceptable,
// the reverse is not.
func (s *Service) processEvent(ctx context.Context, sub *v1.Submission) (tracking.Result, *ingestionError) {
	event := tracking.NewEvent(sub.EventType(), sub.TimestampMillis, sub.SessionID, sub.UserID, sub.Details)

	if err := s.store.SaveEvent(ctx, event); err != nil {
		slog.Error("Failed to persist event", "error", err, "session_id", sub.SessionID)
		return tracking.Result{}, &ingestionError{
			statusCode: http.StatusInternalServerError,
			field:      httperr.FieldEvent,
			message:    httperr.MsgPersistFailed,
		}
	}

	s.broadcast(ctx, event)

	return event.Result(), nil
}

// broadcast republishes the event's raw payload to the session topic.
// Failures are logged and absorbed; the HTTP response never depends on the
// broadcast outcome.
func (s *Service) broadcast(ctx context.Context, event *tracking.Event) {
	topic := realtime.Topic(event.SessionID)

	payload, err := json.Marshal(event.Details)
	if err != nil {
		slog.Warn("Failed to encode broadcast payload", "topic", topic, "error", err)
		return
	}

	if err := s.broadcaster.Publish(ctx, topic, payload); err != nil {
		slog.Warn("Failed to broadcast event", "topic", topic, "event_id", event.ID, "error", err)
		return
	}

	slog.Debug("Broadcast event", "topic", topic, "event_id", event.ID)
}

// ListSessionEventsHandler returns the most recent stored events for one
// session, newest first.
func (s *Service) ListSessionEventsHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxListLimit {
			c.JSON(http.StatusBadRequest, httperr.Single(httperr.FieldQuery,
				"limit must be an integer between 1 and "+strconv.Itoa(maxListLimit)))
			return
		}
		limit = parsed
	}

	events, err := s.store.ListBySession(c.Request.Context(), sessionID, limit)
	if err != nil {
		slog.Error("Failed to list session events", "session_id", sessionID, "error", err)
		c.JSON(http.StatusInternalServerError, httperr.Single(httperr.FieldEvent, "Failed to list events"))
		return
	}

	if events == nil {
		events = []*tracking.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": events})
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.Single(err.field, err.message))
}
