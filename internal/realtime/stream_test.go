package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestTopic(t *testing.T) {
	require.Equal(t, "user_tracking/abc123", Topic("abc123"))
}

// chanSubscriber feeds a fixed set of payloads then closes the stream.
type chanSubscriber struct {
	payloads [][]byte
	topic    string
	err      error
}

func (s *chanSubscriber) Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error) {
	s.topic = topic
	if s.err != nil {
		return nil, nil, s.err
	}
	out := make(chan []byte, len(s.payloads))
	for _, p := range s.payloads {
		out <- p
	}
	close(out)
	return out, func() {}, nil
}

func TestStreamHandler_RelaysPayloads(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sub := &chanSubscriber{payloads: [][]byte{
		[]byte(`{"type":"click","x":1}`),
		[]byte(`{"type":"input","value":"a"}`),
	}}
	svc := NewStreamService(sub)

	r := gin.New()
	svc.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/track-event/stream/abc123", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "user_tracking/abc123", sub.topic)
	require.Equal(t, "text/event-stream", resp.Header().Get("Content-Type"))

	body := resp.Body.String()
	require.Contains(t, body, `{"type":"click","x":1}`)
	require.Contains(t, body, `{"type":"input","value":"a"}`)
}

// blockingSubscriber never delivers; the relay must end on client
// disconnect rather than wait for a message.
type blockingSubscriber struct{}

func (s *blockingSubscriber) Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error) {
	return make(chan []byte), func() {}, nil
}

func TestStreamHandler_ReturnsOnClientDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := NewStreamService(&blockingSubscriber{})

	r := gin.New()
	svc.RegisterRoutes(r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/track-event/stream/abc123", nil).WithContext(ctx)
	resp := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.ServeHTTP(resp, req)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after client disconnect")
	}
	require.Equal(t, "text/event-stream", resp.Header().Get("Content-Type"))
}

func TestStreamHandler_SubscribeFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := NewStreamService(&chanSubscriber{err: errors.New("redis down")})

	r := gin.New()
	svc.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/track-event/stream/abc123", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
