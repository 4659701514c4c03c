package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a booking lifecycle transition on the wire.
type EventType string

const (
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
)

// BookingEvent is the payload published to Kafka for every notified booking
// transition. The email worker renders it into a customer message.
type BookingEvent struct {
	ID               uuid.UUID `json:"id"`
	Type             EventType `json:"type"`
	BookingID        string    `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	TripID           string    `json:"trip_id"`
	ContactEmail     string    `json:"contact_email"`
	ContactPhone     string    `json:"contact_phone,omitempty"`
	SeatCodes        []string  `json:"seat_codes"`
	TotalPrice       float64   `json:"total_price"`
	RefundAmount     float64   `json:"refund_amount,omitempty"`
	Currency         string    `json:"currency"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// ToJSON serializes the event for the wire.
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all events of one booking to the same partition so a
// cancellation can never be consumed before its confirmation.
func (e *BookingEvent) PartitionKey() string {
	return e.BookingReference
}
