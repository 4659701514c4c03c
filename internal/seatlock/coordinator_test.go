package seatlock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bustix/internal/shared/apperrors"
)

// memStore is an in-memory Store mirroring the Redis script semantics.
type memStore struct {
	locks      map[string]string
	acquireErr error
	releaseErr error
}

func newMemStore() *memStore {
	return &memStore{locks: make(map[string]string)}
}

func (s *memStore) AcquireSeats(ctx context.Context, tripID string, seatCodes []string, holder Holder, ttl time.Duration) error {
	if s.acquireErr != nil {
		return s.acquireErr
	}
	for _, code := range seatCodes {
		if _, held := s.locks[tripID+":"+code]; held {
			return &ConflictError{TripID: tripID, SeatCode: code}
		}
	}
	for _, code := range seatCodes {
		s.locks[tripID+":"+code] = holder.SessionID()
	}
	return nil
}

func (s *memStore) ReleaseSeats(ctx context.Context, tripID string, seatCodes []string, holder Holder) (int, error) {
	if s.releaseErr != nil {
		return 0, s.releaseErr
	}
	released := 0
	for _, code := range seatCodes {
		key := tripID + ":" + code
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

func TestAcquireReturnsAdvisoryExpiry(t *testing.T) {
	store := newMemStore()
	coordinator := NewCoordinator(store, 15*time.Minute)

	before := time.Now()
	lockedUntil, err := coordinator.Acquire(context.Background(), "trip-1", []string{"A1", "A2"}, Guest())
	require.NoError(t, err)

	assert.WithinDuration(t, before.Add(15*time.Minute), lockedUntil, 2*time.Second)
	assert.Len(t, store.locks, 2)
}

func TestAcquireConflictIsClientError(t *testing.T) {
	store := newMemStore()
	coordinator := NewCoordinator(store, 15*time.Minute)

	_, err := coordinator.Acquire(context.Background(), "trip-1", []string{"A1"}, Authenticated("user-1"))
	require.NoError(t, err)

	_, err = coordinator.Acquire(context.Background(), "trip-1", []string{"A1"}, Authenticated("user-2"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSeatConflict))
	assert.Contains(t, apperrors.From(err).Message, "A1")
}

func TestAcquireSameHolderStillConflicts(t *testing.T) {
	// Exclusivity is per lock, not per holder: re-requesting a held seat is a
	// conflict even for the same user.
	store := newMemStore()
	coordinator := NewCoordinator(store, 15*time.Minute)

	_, err := coordinator.Acquire(context.Background(), "trip-1", []string{"A1"}, Authenticated("user-1"))
	require.NoError(t, err)

	_, err = coordinator.Acquire(context.Background(), "trip-1", []string{"A1"}, Authenticated("user-1"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSeatConflict))
}

func TestAcquireStoreFailureIsDownstream(t *testing.T) {
	store := newMemStore()
	store.acquireErr = errors.New("connection refused")
	coordinator := NewCoordinator(store, 15*time.Minute)

	_, err := coordinator.Acquire(context.Background(), "trip-1", []string{"A1"}, Guest())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindDownstreamUnavailable))
}

func TestReleaseIsIdempotent(t *testing.T) {
	store := newMemStore()
	coordinator := NewCoordinator(store, 15*time.Minute)
	holder := Authenticated("user-1")

	_, err := coordinator.Acquire(context.Background(), "trip-1", []string{"A1", "A2"}, holder)
	require.NoError(t, err)

	require.NoError(t, coordinator.Release(context.Background(), "trip-1", []string{"A1", "A2"}, holder))
	assert.Empty(t, store.locks)

	// Second release of already-free seats is a no-op, not an error.
	require.NoError(t, coordinator.Release(context.Background(), "trip-1", []string{"A1", "A2"}, holder))
}

func TestReleaseSkipsForeignLocks(t *testing.T) {
	store := newMemStore()
	coordinator := NewCoordinator(store, 15*time.Minute)

	_, err := coordinator.Acquire(context.Background(), "trip-1", []string{"A1"}, Authenticated("user-1"))
	require.NoError(t, err)

	// A different authenticated holder cannot free user-1's seat.
	require.NoError(t, coordinator.Release(context.Background(), "trip-1", []string{"A1"}, Authenticated("user-2")))
	assert.Len(t, store.locks, 1)

	// The guest holder releases unconditionally.
	require.NoError(t, coordinator.Release(context.Background(), "trip-1", []string{"A1"}, Guest()))
	assert.Empty(t, store.locks)
}

func TestReleaseStoreFailureSurfaces(t *testing.T) {
	store := newMemStore()
	store.releaseErr = errors.New("redis timeout")
	coordinator := NewCoordinator(store, 15*time.Minute)

	err := coordinator.Release(context.Background(), "trip-1", []string{"A1"}, Guest())
	require.Error(t, err)
}

func TestHolderSemantics(t *testing.T) {
	guest := Guest()
	assert.True(t, guest.IsGuest())
	assert.Equal(t, "guest", guest.SessionID())
	assert.Empty(t, guest.UserID())

	user := Authenticated("user-42")
	assert.False(t, user.IsGuest())
	assert.Equal(t, "user-42", user.SessionID())
	assert.Equal(t, "user-42", user.UserID())
}
