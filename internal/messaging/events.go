package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys as constants
const (
	EventPrescriptionUpdated = "prescription.updated"
)

// ServiceName identifies the publisher in every event envelope
const ServiceName = "records-service"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// PrescriptionUpdatedEvent is published after an update transaction commits
type PrescriptionUpdatedEvent struct {
	BaseEvent
	Data PrescriptionUpdatedData `json:"data"`
}

type PrescriptionUpdatedData struct {
	ReferenceNumber string    `json:"reference_number"`
	PatientID       int64     `json:"patient_id"`
	DoctorID        int64     `json:"doctor_id"`
	MedicineID      int64     `json:"medicine_id"`
	UpdatedTables   []string  `json:"updated_tables"` // patient, doctor, medicine
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: ServiceName,
	}
}

// ID returns the event id, used as the AMQP message id
func (e BaseEvent) ID() string { return e.EventID }
