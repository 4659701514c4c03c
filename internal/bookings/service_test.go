package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bustix/internal/seatlock"
	"bustix/internal/shared/apperrors"
	"bustix/internal/trips"
	"bustix/pkg/logger"
)

// ---- fakes ----

// fakeRepo is an in-memory booking repository enforcing reference uniqueness
// the way the database does.
type fakeRepo struct {
	mu         sync.Mutex
	byID       map[uuid.UUID]*Booking
	references map[string]struct{}
	createErr  error
	updateErr  error
	// failDuplicates forces the next n creates to collide on the reference.
	failDuplicates int
	createCalls    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:       make(map[uuid.UUID]*Booking),
		references: make(map[string]struct{}),
	}
}

func (r *fakeRepo) Create(ctx context.Context, booking *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	if r.failDuplicates > 0 {
		r.failDuplicates--
		return gorm.ErrDuplicatedKey
	}
	if _, exists := r.references[booking.BookingReference]; exists {
		return gorm.ErrDuplicatedKey
	}

	stored := *booking
	r.byID[booking.ID] = &stored
	r.references[booking.BookingReference] = struct{}{}
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeRepo) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, booking := range r.byID {
		if booking.BookingReference == reference {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) Update(ctx context.Context, booking *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	stored := *booking
	r.byID[booking.ID] = &stored
	return nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// fakeLockStore is an in-memory seatlock.Store with the same holder
// semantics as the Redis scripts.
type fakeLockStore struct {
	mu          sync.Mutex
	locks       map[string]string // "trip:seat" -> session id
	acquireErr  error
	releaseErr  error
	releaseLogs [][]string
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{locks: make(map[string]string)}
}

func (s *fakeLockStore) key(tripID, seatCode string) string {
	return tripID + ":" + seatCode
}

func (s *fakeLockStore) AcquireSeats(ctx context.Context, tripID string, seatCodes []string, holder seatlock.Holder, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.acquireErr != nil {
		return s.acquireErr
	}
	for _, code := range seatCodes {
		if _, held := s.locks[s.key(tripID, code)]; held {
			return &seatlock.ConflictError{TripID: tripID, SeatCode: code}
		}
	}
	for _, code := range seatCodes {
		s.locks[s.key(tripID, code)] = holder.SessionID()
	}
	return nil
}

func (s *fakeLockStore) ReleaseSeats(ctx context.Context, tripID string, seatCodes []string, holder seatlock.Holder) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLogs = append(s.releaseLogs, seatCodes)
	if s.releaseErr != nil {
		return 0, s.releaseErr
	}

	released := 0
	for _, code := range seatCodes {
		key := s.key(tripID, code)
		session, held := s.locks[key]
		if !held {
			continue
		}
		if holder.IsGuest() || session == holder.SessionID() {
			delete(s.locks, key)
			released++
		}
	}
	return released, nil
}

func (s *fakeLockStore) heldCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

// fakeTripService serves one fixed trip.
type fakeTripService struct {
	trip *trips.Trip
	err  error
}

func (s *fakeTripService) GetTrip(ctx context.Context, id uuid.UUID) (*trips.Trip, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.trip == nil || s.trip.ID != id {
		return nil, apperrors.NotFound("trip not found")
	}
	return s.trip, nil
}

// fakeNotifier records lifecycle notifications.
type fakeNotifier struct {
	mu        sync.Mutex
	confirmed []string
	cancelled []string
	err       error
}

func (n *fakeNotifier) BookingConfirmed(ctx context.Context, booking *Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.confirmed = append(n.confirmed, booking.BookingReference)
	return nil
}

func (n *fakeNotifier) BookingCancelled(ctx context.Context, booking *Booking, refundAmount float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.cancelled = append(n.cancelled, booking.BookingReference)
	return nil
}

// ---- fixtures ----

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type serviceFixture struct {
	service  *service
	repo     *fakeRepo
	store    *fakeLockStore
	trips    *fakeTripService
	notifier *fakeNotifier
	trip     *trips.Trip
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	trip := &trips.Trip{
		ID:            uuid.New(),
		RouteName:     "Ha Noi - Da Nang",
		Origin:        "Ha Noi",
		Destination:   "Da Nang",
		DepartureTime: fixedNow.Add(72 * time.Hour),
		ArrivalTime:   fixedNow.Add(86 * time.Hour),
		PricePerSeat:  350000,
		Currency:      "VND",
		TotalSeats:    40,
	}

	repo := newFakeRepo()
	store := newFakeLockStore()
	tripService := &fakeTripService{trip: trip}
	notifier := &fakeNotifier{}

	svc := NewService(
		repo,
		tripService,
		seatlock.NewCoordinator(store, 15*time.Minute),
		notifier,
		logger.GetDefault(),
		10,
	).(*service)
	svc.now = func() time.Time { return fixedNow }

	return &serviceFixture{
		service:  svc,
		repo:     repo,
		store:    store,
		trips:    tripService,
		notifier: notifier,
		trip:     trip,
	}
}

func validCreateRequest(tripID uuid.UUID) CreateBookingRequest {
	return CreateBookingRequest{
		TripID:       tripID.String(),
		ContactEmail: "Khach@Example.com",
		ContactPhone: "+84912345678",
		Passengers: []PassengerInput{
			{FullName: "Nguyen Van A", SeatCode: "A1"},
			{FullName: "Tran Thi B", SeatCode: "A2"},
		},
	}
}

// ---- CreateBooking ----

func TestCreateBookingGuestSuccess(t *testing.T) {
	f := newServiceFixture(t)

	resp, err := f.service.CreateBooking(context.Background(), validCreateRequest(f.trip.ID), nil)
	require.NoError(t, err)

	assert.Equal(t, "PENDING", resp.Status)
	assert.True(t, IsValidReferenceFormat(resp.BookingReference))
	require.NotNil(t, resp.LockedUntil)
	assert.Equal(t, fixedNow.Add(15*time.Minute), *resp.LockedUntil)

	// Pricing: 2 x 350000 = 700000 subtotal, 21000 + 10000 fee.
	assert.Equal(t, 700000.0, resp.Subtotal)
	assert.Equal(t, 31000.0, resp.ServiceFee)
	assert.Equal(t, 731000.0, resp.TotalPrice)
	assert.Equal(t, "VND", resp.Currency)

	// Contact is stored normalized.
	stored, err := f.repo.GetByReference(context.Background(), resp.BookingReference)
	require.NoError(t, err)
	assert.Equal(t, "khach@example.com", stored.ContactEmail)
	assert.Equal(t, "0912345678", stored.ContactPhone)
	assert.Nil(t, stored.UserID)

	assert.Equal(t, 2, f.store.heldCount())
	require.NotNil(t, resp.Trip)
	assert.Equal(t, "Ha Noi - Da Nang", resp.Trip.RouteName)
}

func TestCreateBookingAuthenticatedSuccess(t *testing.T) {
	f := newServiceFixture(t)
	userID := uuid.New()

	req := validCreateRequest(f.trip.ID)
	req.ContactEmail = ""
	req.ContactPhone = ""

	resp, err := f.service.CreateBooking(context.Background(), req, &userID)
	require.NoError(t, err)

	stored, err := f.repo.GetByReference(context.Background(), resp.BookingReference)
	require.NoError(t, err)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, userID, *stored.UserID)
}

func TestCreateBookingSeatConflictPersistsNothing(t *testing.T) {
	f := newServiceFixture(t)

	// First booking takes A1.
	_, err := f.service.CreateBooking(context.Background(), validCreateRequest(f.trip.ID), nil)
	require.NoError(t, err)

	// Second request overlaps on A2 with a fresh seat A3: all-or-nothing.
	req := validCreateRequest(f.trip.ID)
	req.Passengers = []PassengerInput{
		{FullName: "Le Van C", SeatCode: "A3"},
		{FullName: "Pham Thi D", SeatCode: "A2"},
	}

	_, err = f.service.CreateBooking(context.Background(), req, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSeatConflict))

	assert.Equal(t, 1, f.repo.count(), "conflicting request must not persist a booking")
	assert.Equal(t, 2, f.store.heldCount(), "partial acquisition must not leave A3 held")
}

func TestCreateBookingCompensatesLocksOnPersistFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.createErr = errors.New("connection reset")

	_, err := f.service.CreateBooking(context.Background(), validCreateRequest(f.trip.ID), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindDownstreamUnavailable))

	assert.Equal(t, 0, f.store.heldCount(), "locks must be released when the booking row never lands")
}

func TestCreateBookingRetriesDuplicateReference(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.failDuplicates = 2

	resp, err := f.service.CreateBooking(context.Background(), validCreateRequest(f.trip.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, f.repo.createCalls)
	assert.Equal(t, 1, f.repo.count())
	assert.True(t, IsValidReferenceFormat(resp.BookingReference))
}

func TestCreateBookingGivesUpAfterReferenceRetries(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.failDuplicates = referenceRetries

	_, err := f.service.CreateBooking(context.Background(), validCreateRequest(f.trip.ID), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindDownstreamUnavailable))
	assert.Equal(t, 0, f.store.heldCount())
}

func TestCreateBookingRejectsDepartedTrip(t *testing.T) {
	f := newServiceFixture(t)
	f.trip.DepartureTime = fixedNow.Add(-time.Hour)

	_, err := f.service.CreateBooking(context.Background(), validCreateRequest(f.trip.ID), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Equal(t, 0, f.store.heldCount())
}

func TestCreateBookingRejectsUnknownTrip(t *testing.T) {
	f := newServiceFixture(t)

	req := validCreateRequest(uuid.New())
	_, err := f.service.CreateBooking(context.Background(), req, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCreateBookingGuestRequiresContact(t *testing.T) {
	f := newServiceFixture(t)

	req := validCreateRequest(f.trip.ID)
	req.ContactEmail = ""

	_, err := f.service.CreateBooking(context.Background(), req, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateBookingConcurrentOverlapAdmitsOne(t *testing.T) {
	f := newServiceFixture(t)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := CreateBookingRequest{
				TripID:       f.trip.ID.String(),
				ContactEmail: fmt.Sprintf("user%d@example.com", i),
				ContactPhone: "0912345678",
				Passengers: []PassengerInput{
					// Every request wants B5; the distinct second seat makes a
					// partial grab visible if atomicity breaks.
					{FullName: fmt.Sprintf("Passenger %d", i), SeatCode: "B5"},
					{FullName: fmt.Sprintf("Companion %d", i), SeatCode: fmt.Sprintf("C%d", i+1)},
				},
			}
			_, err := f.service.CreateBooking(context.Background(), req, nil)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case apperrors.IsKind(err, apperrors.KindSeatConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one request may win the contested seat")
	assert.Equal(t, attempts-1, conflicted)
	assert.Equal(t, 1, f.repo.count())
	assert.Equal(t, 2, f.store.heldCount(), "losers must not leave their companion seats held")
}

// ---- ConfirmBooking ----

func createPendingBooking(t *testing.T, f *serviceFixture, userID *uuid.UUID) uuid.UUID {
	t.Helper()
	req := validCreateRequest(f.trip.ID)
	resp, err := f.service.CreateBooking(context.Background(), req, userID)
	require.NoError(t, err)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	return id
}

func TestConfirmBooking(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)

	resp, err := f.service.ConfirmBooking(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Nil(t, resp.LockedUntil)
	require.NotNil(t, resp.RefundPreview)
	assert.Equal(t, 100.0, resp.RefundPreview.RefundPercentage)

	assert.Len(t, f.notifier.confirmed, 1)
}

func TestConfirmBookingExpiredHoldRejected(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)

	f.service.now = func() time.Time { return fixedNow.Add(16 * time.Minute) }

	_, err := f.service.ConfirmBooking(context.Background(), id, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	assert.Empty(t, f.notifier.confirmed)
}

func TestConfirmBookingTwiceRejected(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)

	_, err := f.service.ConfirmBooking(context.Background(), id, nil)
	require.NoError(t, err)

	_, err = f.service.ConfirmBooking(context.Background(), id, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestConfirmBookingNotifierFailureDoesNotFail(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)
	f.notifier.err = errors.New("broker down")

	resp, err := f.service.ConfirmBooking(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
}

// ---- CancelBooking ----

func TestCancelConfirmedBookingFullRefund(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)
	_, err := f.service.ConfirmBooking(context.Background(), id, nil)
	require.NoError(t, err)

	resp, err := f.service.CancelBooking(context.Background(), id, CancelBookingRequest{Reason: "change of plans"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "CANCELLED", resp.Status)
	assert.Equal(t, "change of plans", resp.CancelReason)
	assert.Equal(t, 731000.0, resp.Refund.RefundAmount)
	assert.Equal(t, 100.0, resp.Refund.RefundPercentage)

	assert.Equal(t, 0, f.store.heldCount(), "cancellation must free the seats")
	assert.Len(t, f.notifier.cancelled, 1)
}

func TestCancelConfirmedBookingPartialRefund(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)
	_, err := f.service.ConfirmBooking(context.Background(), id, nil)
	require.NoError(t, err)

	// 30 hours out: partial tier.
	f.service.now = func() time.Time { return f.trip.DepartureTime.Add(-30 * time.Hour) }

	resp, err := f.service.CancelBooking(context.Background(), id, CancelBookingRequest{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 70.0, resp.Refund.RefundPercentage)
	assert.Equal(t, 511700.0, resp.Refund.RefundAmount) // 731000 * 0.7
}

func TestCancelConfirmedBookingInsideFinalWindowRejected(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)
	_, err := f.service.ConfirmBooking(context.Background(), id, nil)
	require.NoError(t, err)

	f.service.now = func() time.Time { return f.trip.DepartureTime.Add(-6 * time.Hour) }

	_, err = f.service.CancelBooking(context.Background(), id, CancelBookingRequest{}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	stored, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.Status)
}

func TestCancelPendingBookingSkipsRefundPolicy(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)

	resp, err := f.service.CancelBooking(context.Background(), id, CancelBookingRequest{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "CANCELLED", resp.Status)
	assert.Equal(t, 0.0, resp.Refund.RefundAmount, "nothing was charged on a pending hold")
	assert.Equal(t, 0, f.store.heldCount())
}

func TestCancelPendingBookingSurvivesTripServiceOutage(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)
	f.trips.err = apperrors.Downstream("trip service unavailable", errors.New("timeout"))

	resp, err := f.service.CancelBooking(context.Background(), id, CancelBookingRequest{}, nil)
	require.NoError(t, err, "abandoning an unpaid hold needs no trip lookup")
	assert.Equal(t, "CANCELLED", resp.Status)
}

func TestCancelBookingTwiceRejected(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)

	_, err := f.service.CancelBooking(context.Background(), id, CancelBookingRequest{}, nil)
	require.NoError(t, err)

	_, err = f.service.CancelBooking(context.Background(), id, CancelBookingRequest{}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestCancelBookingToleratesReleaseFailure(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)
	f.store.releaseErr = errors.New("redis timeout")

	resp, err := f.service.CancelBooking(context.Background(), id, CancelBookingRequest{}, nil)
	require.NoError(t, err, "release is best effort, the TTL reclaims the locks")
	assert.Equal(t, "CANCELLED", resp.Status)

	stored, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status, "status write must land before the release attempt")
}

func TestCancelBookingOwnershipEnforced(t *testing.T) {
	f := newServiceFixture(t)
	owner := uuid.New()
	id := createPendingBooking(t, f, &owner)

	stranger := uuid.New()
	_, err := f.service.CancelBooking(context.Background(), id, CancelBookingRequest{}, &stranger)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindContactMismatch))

	_, err = f.service.CancelBooking(context.Background(), id, CancelBookingRequest{}, nil)
	require.Error(t, err, "anonymous caller cannot cancel an owned booking")
}

func TestCancelGuestBookingUsesGuestHolder(t *testing.T) {
	f := newServiceFixture(t)
	id := createPendingBooking(t, f, nil)

	_, err := f.service.CancelBooking(context.Background(), id, CancelBookingRequest{}, nil)
	require.NoError(t, err)

	// The guest holder deletes unconditionally, so nothing stays held.
	assert.Equal(t, 0, f.store.heldCount())
}

// ---- GuestLookup ----

func TestGuestLookupByEmail(t *testing.T) {
	f := newServiceFixture(t)
	created, err := f.service.CreateBooking(context.Background(), validCreateRequest(f.trip.ID), nil)
	require.NoError(t, err)

	resp, err := f.service.GuestLookup(context.Background(), GuestLookupRequest{
		Reference: created.BookingReference,
		Email:     "KHACH@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, created.BookingReference, resp.BookingReference)
}

func TestGuestLookupByPhoneEquivalence(t *testing.T) {
	f := newServiceFixture(t)
	created, err := f.service.CreateBooking(context.Background(), validCreateRequest(f.trip.ID), nil)
	require.NoError(t, err)

	// Booking was made with +84912345678; lookup with the domestic form.
	resp, err := f.service.GuestLookup(context.Background(), GuestLookupRequest{
		Reference: created.BookingReference,
		Phone:     "0912345678",
	})
	require.NoError(t, err)
	assert.Equal(t, created.BookingReference, resp.BookingReference)

	// And the other way around.
	resp, err = f.service.GuestLookup(context.Background(), GuestLookupRequest{
		Reference: created.BookingReference,
		Phone:     "+84912345678",
	})
	require.NoError(t, err)
	assert.Equal(t, created.BookingReference, resp.BookingReference)
}

func TestGuestLookupUnknownReferenceIsNotFound(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.GuestLookup(context.Background(), GuestLookupRequest{
		Reference: "BX25031099999",
		Email:     "khach@example.com",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Equal(t, apperrors.CodeNotFound, apperrors.From(err).Code)
}

func TestGuestLookupWrongContactIsMismatchNotNotFound(t *testing.T) {
	f := newServiceFixture(t)
	created, err := f.service.CreateBooking(context.Background(), validCreateRequest(f.trip.ID), nil)
	require.NoError(t, err)

	_, err = f.service.GuestLookup(context.Background(), GuestLookupRequest{
		Reference: created.BookingReference,
		Email:     "someone-else@example.com",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindContactMismatch),
		"a valid reference with the wrong contact must not read as not-found")
	assert.Equal(t, apperrors.CodeContactMismatch, apperrors.From(err).Code)
}

func TestGuestLookupMalformedReferenceRejected(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.GuestLookup(context.Background(), GuestLookupRequest{
		Reference: "not-a-reference",
		Email:     "khach@example.com",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestGuestLookupRequiresContact(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.GuestLookup(context.Background(), GuestLookupRequest{
		Reference: "BX25031012345",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestGuestLookupExpiredPendingReadsCancelled(t *testing.T) {
	f := newServiceFixture(t)
	created, err := f.service.CreateBooking(context.Background(), validCreateRequest(f.trip.ID), nil)
	require.NoError(t, err)

	f.service.now = func() time.Time { return fixedNow.Add(20 * time.Minute) }

	resp, err := f.service.GuestLookup(context.Background(), GuestLookupRequest{
		Reference: created.BookingReference,
		Email:     "khach@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)
	assert.Nil(t, resp.LockedUntil)
}

// ---- GetBooking / GetByReference ----

func TestGetBookingOwnershipEnforced(t *testing.T) {
	f := newServiceFixture(t)
	owner := uuid.New()
	id := createPendingBooking(t, f, &owner)

	_, err := f.service.GetBooking(context.Background(), id, &owner)
	require.NoError(t, err)

	stranger := uuid.New()
	_, err = f.service.GetBooking(context.Background(), id, &stranger)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindContactMismatch))
}

func TestGetByReferenceNormalizesCase(t *testing.T) {
	f := newServiceFixture(t)
	created, err := f.service.CreateBooking(context.Background(), validCreateRequest(f.trip.ID), nil)
	require.NoError(t, err)

	resp, err := f.service.GetByReference(context.Background(), "  "+strings.ToLower(created.BookingReference)+" ", nil)
	require.NoError(t, err)
	assert.Equal(t, created.BookingReference, resp.BookingReference)
}
