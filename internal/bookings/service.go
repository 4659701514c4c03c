package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bustix/internal/pricing"
	"bustix/internal/refund"
	"bustix/internal/seatlock"
	"bustix/internal/shared/apperrors"
	"bustix/internal/trips"
	"bustix/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// referenceRetries bounds how often a colliding booking reference is
// regenerated before giving up.
const referenceRetries = 3

// Notifier publishes booking lifecycle events. Delivery is best effort: the
// service logs and swallows publish failures, it never fails a booking over
// them.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *Booking) error
	BookingCancelled(ctx context.Context, booking *Booking, refundAmount float64) error
}

// Service orchestrates the booking lifecycle.
type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest, userID *uuid.UUID) (*BookingResponse, error)
	GetBooking(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*BookingResponse, error)
	GetByReference(ctx context.Context, reference string, userID *uuid.UUID) (*BookingResponse, error)
	ConfirmBooking(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*BookingResponse, error)
	CancelBooking(ctx context.Context, id uuid.UUID, req CancelBookingRequest, userID *uuid.UUID) (*CancelBookingResponse, error)
	GuestLookup(ctx context.Context, req GuestLookupRequest) (*BookingResponse, error)
}

type service struct {
	repo        Repository
	tripService trips.Service
	locks       *seatlock.Coordinator
	notifier    Notifier
	logger      *logger.Logger
	maxSeats    int
	now         func() time.Time
}

// NewService creates a booking service. notifier may be nil when the
// notification pipeline is disabled.
func NewService(repo Repository, tripService trips.Service, locks *seatlock.Coordinator, notifier Notifier, log *logger.Logger, maxSeats int) Service {
	return &service{
		repo:        repo,
		tripService: tripService,
		locks:       locks,
		notifier:    notifier,
		logger:      log,
		maxSeats:    maxSeats,
		now:         time.Now,
	}
}

// CreateBooking validates the request, acquires all requested seats
// atomically, prices them, and persists the booking as PENDING. The seat
// hold is taken before the row exists, so every failure after acquisition
// runs a compensating release.
func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest, userID *uuid.UUID) (*BookingResponse, error) {
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, apperrors.Validation("invalid trip id", map[string]string{"trip_id": "must be a valid UUID"})
	}

	seatCodes, err := validateSeatSelection(req.Passengers, s.maxSeats)
	if err != nil {
		return nil, err
	}
	if err := validateContact(req.ContactEmail, req.ContactPhone, userID == nil); err != nil {
		return nil, err
	}

	trip, err := s.tripService.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if trip.HasDeparted(now) {
		return nil, apperrors.Validation("trip has already departed", map[string]string{
			"trip_id": "departure time is in the past",
		})
	}

	holder := seatlock.Guest()
	if userID != nil {
		holder = seatlock.Authenticated(userID.String())
	}

	lockedUntil, err := s.locks.Acquire(ctx, tripID.String(), seatCodes, holder)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindSeatConflict) {
			s.logger.LogSeatConflict(ctx, tripID.String(), seatCodes)
		}
		return nil, err
	}

	quote := pricing.QuoteForSeats(trip.PricePerSeat, len(seatCodes), trip.Currency)

	booking := &Booking{
		ID:           uuid.New(),
		TripID:       tripID,
		UserID:       userID,
		ContactEmail: NormalizeEmail(req.ContactEmail),
		ContactPhone: NormalizePhone(req.ContactPhone),
		Status:       StatusPending,
		LockedUntil:  lockedUntil,
		Subtotal:     quote.Subtotal,
		ServiceFee:   quote.ServiceFee,
		TotalPrice:   quote.Total,
		Currency:     quote.Currency,
	}
	for i, p := range req.Passengers {
		booking.Passengers = append(booking.Passengers, Passenger{
			ID:         uuid.New(),
			BookingID:  booking.ID,
			FullName:   p.FullName,
			Phone:      NormalizePhone(p.Phone),
			DocumentID: p.DocumentID,
			SeatCode:   seatCodes[i],
		})
	}

	if err := s.persistWithReferenceRetry(ctx, booking); err != nil {
		// Compensate: the seats were locked but the booking never existed.
		// Release is best effort, the TTL bounds the damage either way.
		if relErr := s.locks.Release(ctx, tripID.String(), seatCodes, holder); relErr != nil {
			s.logger.LogLockReleaseFailure(ctx, tripID.String(), seatCodes, relErr)
		}
		return nil, err
	}

	s.logger.LogBookingCreated(ctx, booking.ID.String(), booking.BookingReference, tripID.String())

	resp := NewBookingResponse(booking, now)
	summary := trip.ToSummary()
	resp.Trip = &summary
	return resp, nil
}

// persistWithReferenceRetry inserts the booking, regenerating its reference
// on a uniqueness collision up to referenceRetries times.
func (s *service) persistWithReferenceRetry(ctx context.Context, booking *Booking) error {
	for attempt := 0; attempt < referenceRetries; attempt++ {
		reference, err := GenerateReference()
		if err != nil {
			return apperrors.Downstream("could not generate booking reference", err)
		}
		booking.BookingReference = reference

		err = s.repo.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return apperrors.Downstream("could not persist booking", err)
	}
	return apperrors.Downstream("could not allocate a unique booking reference",
		fmt.Errorf("exhausted %d attempts", referenceRetries))
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*BookingResponse, error) {
	booking, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(booking, userID); err != nil {
		return nil, err
	}
	return s.toDetailResponse(ctx, booking), nil
}

func (s *service) GetByReference(ctx context.Context, reference string, userID *uuid.UUID) (*BookingResponse, error) {
	booking, err := s.loadByReference(ctx, NormalizeReference(reference))
	if err != nil {
		return nil, err
	}
	if err := s.authorize(booking, userID); err != nil {
		return nil, err
	}
	return s.toDetailResponse(ctx, booking), nil
}

// ConfirmBooking transitions a pending booking to CONFIRMED, typically after
// payment capture. A pending booking past its hold window reads as cancelled
// and can no longer be confirmed.
func (s *service) ConfirmBooking(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*BookingResponse, error) {
	booking, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(booking, userID); err != nil {
		return nil, err
	}

	now := s.now()
	current := booking.EffectiveStatus(now)
	if !current.CanTransitionTo(StatusConfirmed) {
		return nil, apperrors.InvalidState(
			fmt.Sprintf("booking cannot be confirmed from status %s", current))
	}

	booking.Status = StatusConfirmed
	booking.UpdatedAt = now
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, apperrors.Downstream("could not update booking", err)
	}

	if s.notifier != nil {
		if err := s.notifier.BookingConfirmed(ctx, booking); err != nil {
			s.logger.LogNotificationFailure(ctx, "booking_confirmed", booking.ID.String(), err)
		}
	}

	return s.toDetailResponse(ctx, booking), nil
}

// CancelBooking transitions a booking to CANCELLED and frees its seats. The
// status write happens before the lock release: a reader must never observe
// free seats against a live booking. Release failures are logged and
// swallowed, the TTL reclaims the locks regardless.
func (s *service) CancelBooking(ctx context.Context, id uuid.UUID, req CancelBookingRequest, userID *uuid.UUID) (*CancelBookingResponse, error) {
	booking, err := s.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(booking, userID); err != nil {
		return nil, err
	}

	now := s.now()
	current := booking.EffectiveStatus(now)
	if !current.CanBeCancelled() {
		return nil, apperrors.InvalidState(
			fmt.Sprintf("booking cannot be cancelled from status %s", current))
	}

	// The refund policy gates confirmed bookings only. Cancelling a pending
	// hold just abandons it; nothing was charged and no trip lookup is needed.
	var refundDetails refund.RefundDetails
	if current == StatusConfirmed {
		trip, err := s.tripService.GetTrip(ctx, booking.TripID)
		if err != nil {
			return nil, err
		}
		ok, reason := refund.CanCancel(trip.DepartureTime, now)
		if !ok {
			return nil, apperrors.InvalidState(reason)
		}
		refundDetails = refund.CalculateRefund(booking.TotalPrice, trip.DepartureTime, now)
	}

	booking.Cancel(req.Reason)
	booking.UpdatedAt = now
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, apperrors.Downstream("could not update booking", err)
	}

	holder := seatlock.Guest()
	if booking.UserID != nil {
		holder = seatlock.Authenticated(booking.UserID.String())
	}
	seatCodes := booking.SeatCodes()
	if relErr := s.locks.Release(ctx, booking.TripID.String(), seatCodes, holder); relErr != nil {
		s.logger.LogLockReleaseFailure(ctx, booking.TripID.String(), seatCodes, relErr)
	}

	s.logger.LogBookingCancelled(ctx, booking.ID.String(), booking.TripID.String(), refundDetails.RefundAmount)

	if s.notifier != nil {
		if err := s.notifier.BookingCancelled(ctx, booking, refundDetails.RefundAmount); err != nil {
			s.logger.LogNotificationFailure(ctx, "booking_cancelled", booking.ID.String(), err)
		}
	}

	return &CancelBookingResponse{
		BookingReference: booking.BookingReference,
		Status:           booking.Status.String(),
		CancelReason:     booking.CancelReason,
		CancelledAt:      *booking.CancelledAt,
		Refund:           refundDetails,
	}, nil
}

// GuestLookup fetches a booking by reference plus a matching contact. An
// unknown reference and a known reference with a wrong contact are distinct
// failures: the latter must not masquerade as not-found.
func (s *service) GuestLookup(ctx context.Context, req GuestLookupRequest) (*BookingResponse, error) {
	reference := NormalizeReference(req.Reference)
	if !IsValidReferenceFormat(reference) {
		return nil, apperrors.Validation("invalid booking reference", map[string]string{
			"reference": "must be two letters followed by eleven digits",
		})
	}

	email := NormalizeEmail(req.Email)
	phone := NormalizePhone(req.Phone)
	if email == "" && phone == "" {
		return nil, apperrors.Validation("contact is required", map[string]string{
			"contact": "provide the email or phone used for the booking",
		})
	}

	booking, err := s.loadByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	matches := (email != "" && email == booking.ContactEmail) ||
		(phone != "" && phone == booking.ContactPhone)
	if !matches {
		return nil, apperrors.ContactMismatch("contact details do not match this booking")
	}

	return s.toDetailResponse(ctx, booking), nil
}

func (s *service) loadByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("booking not found")
		}
		return nil, apperrors.Downstream("could not load booking", err)
	}
	return booking, nil
}

func (s *service) loadByReference(ctx context.Context, reference string) (*Booking, error) {
	booking, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("booking not found")
		}
		return nil, apperrors.Downstream("could not load booking", err)
	}
	return booking, nil
}

// authorize rejects access to another user's booking. Guest bookings have no
// owner and are only reachable through guest lookup or by any authenticated
// reference holder.
func (s *service) authorize(booking *Booking, userID *uuid.UUID) error {
	if booking.UserID == nil {
		return nil
	}
	if userID == nil || *userID != *booking.UserID {
		return apperrors.ContactMismatch("booking belongs to another account")
	}
	return nil
}

// toDetailResponse decorates the response with the trip summary and, for a
// cancellable confirmed booking, a refund preview. Trip read failures only
// degrade the response.
func (s *service) toDetailResponse(ctx context.Context, booking *Booking) *BookingResponse {
	now := s.now()
	resp := NewBookingResponse(booking, now)

	trip, err := s.tripService.GetTrip(ctx, booking.TripID)
	if err != nil {
		return resp
	}
	summary := trip.ToSummary()
	resp.Trip = &summary

	if booking.EffectiveStatus(now) == StatusConfirmed && !trip.HasDeparted(now) {
		preview := refund.CalculateRefund(booking.TotalPrice, trip.DepartureTime, now)
		resp.RefundPreview = &preview
	}
	return resp
}
