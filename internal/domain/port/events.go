package port

import "context"

// EventPublisher emits segment lifecycle events for fleet monitoring.
type EventPublisher interface {
	PublishSegmentEvent(ctx context.Context, msg []byte) error
}
