package sessions

import "context"

// Repository defines the interface for session data access
type Repository interface {
	// Upsert creates or replaces the session for its key and returns
	// the persisted row
	Upsert(ctx context.Context, session *Session) (*Session, error)

	// GetByKey retrieves a session by its key, returning
	// ErrSessionNotFound when no row exists
	GetByKey(ctx context.Context, key string) (*Session, error)
}

// StoreState reports whether the backing store can currently be used.
type StoreState interface {
	Available() bool
}

// Service defines the interface for session business logic
type Service interface {
	// Save validates and persists a session
	Save(ctx context.Context, session *Session) (*Session, error)

	// GetByKey loads the session for a key
	GetByKey(ctx context.Context, key string) (*Session, error)
}
