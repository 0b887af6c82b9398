package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/messaging"
)

// PublishedEvent represents an event that was published to RabbitMQ
type PublishedEvent struct {
	RoutingKey string
	EventData  interface{}
	Timestamp  time.Time
	RawJSON    []byte
}

// MockPublisher keeps published events in memory instead of sending them to RabbitMQ
type MockPublisher struct {
	mu     sync.RWMutex
	events []PublishedEvent
}

var _ messaging.PublisherInterface = (*MockPublisher)(nil)

// NewMockPublisher creates a new mock RabbitMQ publisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		events: make([]PublishedEvent, 0),
	}
}

// Publish stores an event in memory. The payload is marshalled like the real publisher does.
func (m *MockPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, PublishedEvent{
		RoutingKey: routingKey,
		EventData:  eventData,
		Timestamp:  time.Now(),
		RawJSON:    jsonData,
	})
	return nil
}

// Close is a no-op for mock publisher
func (m *MockPublisher) Close() error {
	return nil
}

// GetEventCountByKey returns the number of events with the specified routing key
func (m *MockPublisher) GetEventCountByKey(routingKey string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, event := range m.events {
		if event.RoutingKey == routingKey {
			count++
		}
	}
	return count
}

// AssertEventCount asserts the exact number of events with the given routing key
func (m *MockPublisher) AssertEventCount(t *testing.T, routingKey string, expected int) {
	t.Helper()

	count := m.GetEventCountByKey(routingKey)
	if count != expected {
		t.Errorf("Expected %d events with routing key '%s', got %d", expected, routingKey, count)
	}
}

// LastPrescriptionUpdated decodes the most recent prescription.updated event
func (m *MockPublisher) LastPrescriptionUpdated(t *testing.T) messaging.PrescriptionUpdatedEvent {
	t.Helper()

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].RoutingKey != messaging.EventPrescriptionUpdated {
			continue
		}
		var evt messaging.PrescriptionUpdatedEvent
		if err := json.Unmarshal(m.events[i].RawJSON, &evt); err != nil {
			t.Fatalf("Failed to decode %s event: %v", messaging.EventPrescriptionUpdated, err)
		}
		return evt
	}

	t.Fatalf("No %s event was published", messaging.EventPrescriptionUpdated)
	return messaging.PrescriptionUpdatedEvent{}
}
