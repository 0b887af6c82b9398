package messaging

import "context"

// PublisherInterface defines the contract for event publishing
type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, eventData interface{}) error
	Close() error
}

// Ensure Publisher implements PublisherInterface
var (
	_ PublisherInterface = (*Publisher)(nil)
	_ PublisherInterface = NoopPublisher{}
)

// NoopPublisher drops every event. Used when EVENTS_ENABLED is false.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
