// Package realtime republishes accepted events on per-session topics so
// live subscribers (dashboards, session viewers) can follow a session as it
// happens. The published payload is the full raw request body, session id
// and type included; the topic is already scoped by that session id, so the
// exposure is limited to subscribers who hold the token.
package realtime

import "context"

// topicPrefix namespaces session channels on the shared transport.
const topicPrefix = "user_tracking/"

// Topic returns the broadcast channel name for one session.
func Topic(sessionID string) string {
	return topicPrefix + sessionID
}

// Broadcaster publishes a payload to a named topic. Delivery is
// best-effort and at-most-once per call; subscriber guarantees are the
// transport's concern, not this interface's.
type Broadcaster interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Subscriber delivers payloads published to a topic until the returned
// cancel function is called.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error)
}
