package preferences

import "errors"

var (
	// ErrPreferenceNotFound indicates no preference exists for the key and name
	ErrPreferenceNotFound = errors.New("preference not found")

	// ErrUserKeyRequired indicates a missing or blank user key
	ErrUserKeyRequired = errors.New("user key is required")

	// ErrNameRequired indicates a missing or blank preference name
	ErrNameRequired = errors.New("preference name is required")

	// ErrValueRequired indicates a missing preference value
	ErrValueRequired = errors.New("preference value is required")

	// ErrStoreUnavailable indicates the backing store is degraded
	ErrStoreUnavailable = errors.New("preference store unavailable")
)
