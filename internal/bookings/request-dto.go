package bookings

// PassengerInput is one traveller in a booking request.
type PassengerInput struct {
	FullName   string `json:"full_name" binding:"required,min=2,max=255"`
	Phone      string `json:"phone" binding:"omitempty,max=20"`
	DocumentID string `json:"document_id" binding:"omitempty,max=50"`
	SeatCode   string `json:"seat_code" binding:"required,seatcode"`
}

// CreateBookingRequest defines the request for creating a booking.
// Authenticated callers may omit contact fields; guests must supply both so
// the booking stays reachable through guest lookup.
type CreateBookingRequest struct {
	TripID       string           `json:"trip_id" binding:"required,uuid"`
	ContactEmail string           `json:"contact_email" binding:"omitempty,email,max=255"`
	ContactPhone string           `json:"contact_phone" binding:"omitempty,max=20"`
	Passengers   []PassengerInput `json:"passengers" binding:"required,min=1,dive"`
}

// CancelBookingRequest defines the request for cancelling a booking
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// GuestLookupRequest carries the guest lookup query parameters. The caller
// must present the booking reference plus at least one matching contact.
type GuestLookupRequest struct {
	Reference string `form:"bookingReference" binding:"required"`
	Email     string `form:"email" binding:"omitempty,email"`
	Phone     string `form:"phone" binding:"omitempty,max=20"`
}
