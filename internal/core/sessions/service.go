package sessions

import (
	"Gramcache/internal/core/audit"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type service struct {
	repo    Repository
	store   StoreState
	auditor audit.Recorder
	log     zerolog.Logger
}

// ServiceOption configures optional service behavior
type ServiceOption func(*service)

// WithAuditor records an audit entry after each successful save
func WithAuditor(recorder audit.Recorder) ServiceOption {
	return func(s *service) {
		s.auditor = recorder
	}
}

// NewService creates a new session service
func NewService(repo Repository, store StoreState, log zerolog.Logger, opts ...ServiceOption) Service {
	s := &service{
		repo:  repo,
		store: store,
		log:   log.With().Str("component", "sessions").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Save(ctx context.Context, session *Session) (*Session, error) {
	session.SessionKey = strings.TrimSpace(session.SessionKey)
	if session.SessionKey == "" {
		return nil, ErrSessionKeyRequired
	}

	if !s.usable() {
		return nil, ErrStoreUnavailable
	}

	saved, err := s.repo.Upsert(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.recordAudit(ctx, saved)

	return saved, nil
}

func (s *service) GetByKey(ctx context.Context, key string) (*Session, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrSessionKeyRequired
	}

	if !s.usable() {
		return nil, ErrStoreUnavailable
	}

	session, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		// Pass ErrSessionNotFound through unwrapped so callers can match it
		return nil, err
	}

	return session, nil
}

func (s *service) usable() bool {
	return s.repo != nil && s.store.Available()
}

// recordAudit is best-effort: a failed write never fails the save.
func (s *service) recordAudit(ctx context.Context, session *Session) {
	if s.auditor == nil {
		return
	}

	entry := &audit.Entry{
		Action:     audit.ActionSessionUpserted,
		EntityType: audit.EntitySession,
		EntityID:   session.SessionKey,
		ActorKey:   session.UserID,
		Details: map[string]any{
			"session_id": session.ID,
		},
	}
	if err := s.auditor.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("session_key", session.SessionKey).Msg("failed to record session audit entry")
	}
}
