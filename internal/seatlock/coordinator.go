package seatlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bustix/internal/shared/apperrors"
)

// ConflictError reports a seat that was already held by someone else.
type ConflictError struct {
	TripID   string
	SeatCode string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seat %s on trip %s is already held", e.SeatCode, e.TripID)
}

// Coordinator mediates exclusive, TTL-bound seat holds through a Store.
// Expiry is enforced entirely by the store's TTL; the coordinator runs no
// timers and the locked_until it returns is advisory.
type Coordinator struct {
	store Store
	ttl   time.Duration
}

// NewCoordinator creates a coordinator holding seats for ttl per acquisition.
func NewCoordinator(store Store, ttl time.Duration) *Coordinator {
	return &Coordinator{store: store, ttl: ttl}
}

// TTL returns the hold duration applied on acquisition.
func (c *Coordinator) TTL() time.Duration {
	return c.ttl
}

// Acquire requests all seats atomically and returns the advisory expiry of
// the hold. A conflict aborts the whole request with a client-visible
// 409-class error; the caller must re-search availability, not retry.
func (c *Coordinator) Acquire(ctx context.Context, tripID string, seatCodes []string, holder Holder) (time.Time, error) {
	if err := c.store.AcquireSeats(ctx, tripID, seatCodes, holder, c.ttl); err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return time.Time{}, apperrors.SeatConflict(
				fmt.Sprintf("seat %s is no longer available, please search again", conflict.SeatCode))
		}
		return time.Time{}, apperrors.Downstream("seat inventory unavailable", err)
	}

	return time.Now().Add(c.ttl), nil
}

// Release frees the holder's locks on the given seats. It is idempotent:
// expired or already-released locks are skipped silently. Callers log and
// deliberately discard the returned error, since the TTL guarantees the
// locks cannot outlive the hold window either way.
func (c *Coordinator) Release(ctx context.Context, tripID string, seatCodes []string, holder Holder) error {
	if _, err := c.store.ReleaseSeats(ctx, tripID, seatCodes, holder); err != nil {
		return fmt.Errorf("release seats for trip %s: %w", tripID, err)
	}
	return nil
}
