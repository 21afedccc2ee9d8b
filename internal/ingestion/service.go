package ingestion

import (
	"github.com/gin-gonic/gin"
	"github.com/opentrail-lab/opentrail/internal/core/storage"
	"github.com/opentrail-lab/opentrail/internal/realtime"
)

type Service struct {
	store            storage.EventStore
	broadcaster      realtime.Broadcaster
	maxBodySizeBytes int
}

func NewService(store storage.EventStore, broadcaster realtime.Broadcaster, maxBodySizeKB int) *Service {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if broadcaster == nil {
		panic("ingestion: broadcaster must not be nil")
	}
	if maxBodySizeKB <= 0 {
		maxBodySizeKB = 64 // default to 64KB; single events are small
	}
	return &Service{
		store:            store,
		broadcaster:      broadcaster,
		maxBodySizeBytes: maxBodySizeKB * 1024,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	// Canonical ingestion endpoint, one event per request.
	r.POST("/track-event", s.TrackHandler)
	r.GET("/track-event/sessions/:session_id", s.ListSessionEventsHandler)
}
