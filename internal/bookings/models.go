package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking defines the main booking structure
type Booking struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingReference string     `gorm:"type:varchar(13);unique;not null" json:"booking_reference"`
	TripID           uuid.UUID  `gorm:"type:uuid;index;not null" json:"trip_id"`
	UserID           *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"` // nil = guest booking
	ContactEmail     string     `gorm:"type:varchar(255)" json:"contact_email"`
	ContactPhone     string     `gorm:"type:varchar(20)" json:"contact_phone"`
	Status           Status     `gorm:"type:varchar(20);check:status IN ('PENDING', 'CONFIRMED', 'CANCELLED', 'COMPLETED');default:'PENDING'" json:"status"`
	LockedUntil      time.Time  `json:"locked_until"`
	Subtotal         float64    `gorm:"not null" json:"subtotal"`
	ServiceFee       float64    `gorm:"not null" json:"service_fee"`
	TotalPrice       float64    `gorm:"not null" json:"total_price"`
	Currency         string     `gorm:"type:varchar(3);default:'VND'" json:"currency"`
	CancelReason     string     `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`

	// Relationships
	Passengers []Passenger `json:"passengers,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// Passenger defines one traveller on a booking, pinned to one seat.
// Created atomically with its Booking and retained after cancellation for
// audit.
type Passenger struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	FullName   string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone      string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	DocumentID string    `gorm:"type:varchar(50)" json:"document_id,omitempty"`
	SeatCode   string    `gorm:"type:varchar(4);not null" json:"seat_code"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for Passenger
func (Passenger) TableName() string {
	return "passengers"
}

// IsGuest reports whether the booking was made without an account.
func (b *Booking) IsGuest() bool {
	return b.UserID == nil
}

// SeatCodes returns the seat set held by this booking.
func (b *Booking) SeatCodes() []string {
	codes := make([]string, 0, len(b.Passengers))
	for _, p := range b.Passengers {
		codes = append(codes, p.SeatCode)
	}
	return codes
}

// IsExpired reports whether a pending booking's hold window has elapsed.
func (b *Booking) IsExpired(now time.Time) bool {
	return b.Status == StatusPending && now.After(b.LockedUntil)
}

// EffectiveStatus treats a pending booking past its hold window as cancelled
// even before the reconciliation sweep writes it. The authoritative lock
// lives in the inventory store and has already expired via TTL.
func (b *Booking) EffectiveStatus(now time.Time) Status {
	if b.IsExpired(now) {
		return StatusCancelled
	}
	return b.Status
}

// Cancel marks the booking cancelled in memory.
func (b *Booking) Cancel(reason string) {
	b.Status = StatusCancelled
	b.CancelReason = reason
	now := time.Now()
	b.CancelledAt = &now
	b.UpdatedAt = now
}
