package sessions

import "errors"

var (
	// ErrSessionNotFound indicates no session exists for the given key
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionKeyRequired indicates a missing or blank session key
	ErrSessionKeyRequired = errors.New("session key is required")

	// ErrStoreUnavailable indicates the backing store is degraded
	ErrStoreUnavailable = errors.New("session store unavailable")
)
