package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bustix/internal/bookings"
)

// Notifier adapts the Kafka producer to the booking service's notification
// hook. It satisfies bookings.Notifier.
type Notifier struct {
	producer Producer
}

func NewNotifier(producer Producer) *Notifier {
	return &Notifier{producer: producer}
}

func (n *Notifier) BookingConfirmed(ctx context.Context, booking *bookings.Booking) error {
	return n.producer.Publish(ctx, eventFrom(booking, EventBookingConfirmed, 0))
}

func (n *Notifier) BookingCancelled(ctx context.Context, booking *bookings.Booking, refundAmount float64) error {
	return n.producer.Publish(ctx, eventFrom(booking, EventBookingCancelled, refundAmount))
}

func eventFrom(booking *bookings.Booking, eventType EventType, refundAmount float64) *BookingEvent {
	return &BookingEvent{
		ID:               uuid.New(),
		Type:             eventType,
		BookingID:        booking.ID.String(),
		BookingReference: booking.BookingReference,
		TripID:           booking.TripID.String(),
		ContactEmail:     booking.ContactEmail,
		ContactPhone:     booking.ContactPhone,
		SeatCodes:        booking.SeatCodes(),
		TotalPrice:       booking.TotalPrice,
		RefundAmount:     refundAmount,
		Currency:         booking.Currency,
		OccurredAt:       time.Now(),
	}
}
