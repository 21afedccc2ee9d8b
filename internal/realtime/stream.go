package realtime

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StreamService exposes the per-session live event stream over SSE.
type StreamService struct {
	sub Subscriber
}

// NewStreamService creates the SSE stream service.
func NewStreamService(sub Subscriber) *StreamService {
	if sub == nil {
		panic("realtime: subscriber must not be nil")
	}
	return &StreamService{sub: sub}
}

// RegisterRoutes registers the live stream routes.
func (s *StreamService) RegisterRoutes(r gin.IRouter) {
	r.GET("/track-event/stream/:session_id", s.StreamHandler)
}

// StreamHandler relays every payload broadcast for the session as an SSE
// data frame until the client disconnects.
func (s *StreamService) StreamHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	topic := Topic(sessionID)

	msgs, cancel, err := s.sub.Subscribe(c.Request.Context(), topic)
	if err != nil {
		slog.Error("Failed to subscribe for live stream", "topic", topic, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"errors":  gin.H{"stream": "Live stream unavailable"},
		})
		return
	}
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	slog.Info("Live stream opened", "topic", topic)
	defer slog.Info("Live stream closed", "topic", topic)

	// The request context covers client disconnect; the response writer
	// only needs to support Flush.
	for {
		select {
		case payload, ok := <-msgs:
			if !ok {
				return
			}
			c.SSEvent("message", string(payload))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
