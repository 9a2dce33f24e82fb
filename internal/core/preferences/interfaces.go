package preferences

import "context"

// Repository defines the interface for preference data access
type Repository interface {
	// Set creates or replaces the preference for (userKey, name) and
	// returns the persisted row
	Set(ctx context.Context, pref *Preference) (*Preference, error)

	// Get retrieves one preference, returning ErrPreferenceNotFound
	// when no row exists
	Get(ctx context.Context, userKey, name string) (*Preference, error)

	// ListByUser returns all preferences stored for a user key
	ListByUser(ctx context.Context, userKey string) ([]*Preference, error)
}

// StoreState reports whether the backing store can currently be used.
type StoreState interface {
	Available() bool
}

// Service defines the interface for preference business logic
type Service interface {
	// Set validates and persists a preference
	Set(ctx context.Context, pref *Preference) (*Preference, error)

	// Get loads one preference for a user key
	Get(ctx context.Context, userKey, name string) (*Preference, error)

	// ListByUser loads every preference for a user key
	ListByUser(ctx context.Context, userKey string) ([]*Preference, error)
}
