package seatlock

// Holder identifies who owns a seat hold: an authenticated user or a guest.
// Guest holds carry no session identity, so guest releases delete the lock
// unconditionally while authenticated releases compare the stored session
// value first.
type Holder struct {
	userID string
	guest  bool
}

// Authenticated returns a holder backed by a user id.
func Authenticated(userID string) Holder {
	return Holder{userID: userID}
}

// Guest returns the guest holder marker.
func Guest() Holder {
	return Holder{guest: true}
}

// IsGuest reports whether the holder is a guest.
func (h Holder) IsGuest() bool {
	return h.guest
}

// SessionID is the value written into the lock. Guests share a marker value;
// exclusivity for guests comes from the existence check on acquire, not from
// the session identity.
func (h Holder) SessionID() string {
	if h.guest {
		return "guest"
	}
	return h.userID
}

// UserID returns the authenticated user id, empty for guests.
func (h Holder) UserID() string {
	return h.userID
}
