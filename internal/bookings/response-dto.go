package bookings

import (
	"time"

	"bustix/internal/refund"
	"bustix/internal/trips"
)

// PassengerResponse is one traveller in a booking response.
type PassengerResponse struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
	SeatCode   string `json:"seat_code"`
}

// BookingResponse defines the booking representation returned to clients.
// Status is the effective status: a pending booking past its hold window
// reads as CANCELLED.
type BookingResponse struct {
	ID               string              `json:"id"`
	BookingReference string              `json:"booking_reference"`
	TripID           string              `json:"trip_id"`
	Trip             *trips.Summary      `json:"trip,omitempty"`
	Status           string              `json:"status"`
	LockedUntil      *time.Time          `json:"locked_until,omitempty"`
	Passengers       []PassengerResponse `json:"passengers"`
	Subtotal         float64             `json:"subtotal"`
	ServiceFee       float64             `json:"service_fee"`
	TotalPrice       float64             `json:"total_price"`
	Currency         string              `json:"currency"`
	CancelReason     string              `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	CancelledAt      *time.Time          `json:"cancelled_at,omitempty"`

	// Preview of what cancelling right now would refund. Only present on
	// confirmed bookings for upcoming trips.
	RefundPreview *refund.RefundDetails `json:"refund_preview,omitempty"`
}

// CancelBookingResponse defines the response after cancelling a booking.
type CancelBookingResponse struct {
	BookingReference string               `json:"booking_reference"`
	Status           string               `json:"status"`
	CancelReason     string               `json:"cancel_reason,omitempty"`
	CancelledAt      time.Time            `json:"cancelled_at"`
	Refund           refund.RefundDetails `json:"refund"`
}

// NewBookingResponse converts a booking to its client representation as of
// now.
func NewBookingResponse(b *Booking, now time.Time) *BookingResponse {
	passengers := make([]PassengerResponse, 0, len(b.Passengers))
	for _, p := range b.Passengers {
		passengers = append(passengers, PassengerResponse{
			FullName:   p.FullName,
			Phone:      p.Phone,
			DocumentID: p.DocumentID,
			SeatCode:   p.SeatCode,
		})
	}

	resp := &BookingResponse{
		ID:               b.ID.String(),
		BookingReference: b.BookingReference,
		TripID:           b.TripID.String(),
		Status:           b.EffectiveStatus(now).String(),
		Passengers:       passengers,
		Subtotal:         b.Subtotal,
		ServiceFee:       b.ServiceFee,
		TotalPrice:       b.TotalPrice,
		Currency:         b.Currency,
		CancelReason:     b.CancelReason,
		CreatedAt:        b.CreatedAt,
		CancelledAt:      b.CancelledAt,
	}
	if b.Status == StatusPending && !b.IsExpired(now) {
		lockedUntil := b.LockedUntil
		resp.LockedUntil = &lockedUntil
	}
	return resp
}
