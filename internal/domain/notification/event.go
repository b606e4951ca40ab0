package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names a realtime event pushed to a user
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
	EventPaymentSubmitted EventType = "payment.submitted"
	EventPaymentVerified  EventType = "payment.verified"
	EventPaymentRejected  EventType = "payment.rejected"
)

// Event is the JSON frame written to websocket clients
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"`
	At   time.Time   `json:"at"`
}

// NewEvent stamps an event with the current time
func NewEvent(t EventType, data interface{}) Event {
	return Event{Type: t, Data: data, At: time.Now().UTC()}
}

// Publisher delivers events to every live connection of a user
type Publisher interface {
	Publish(ctx context.Context, userID uuid.UUID, event Event) error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, uuid.UUID, Event) error { return nil }
