package preferences

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

// WithAuditor records an audit entry after each successful set
func WithAuditor(recorder audit.Recorder) ServiceOption {
	return func(s *service) {
		s.auditor = recorder
	}
}

// NewService creates a new preference service
func NewService(repo Repository, store StoreState, log zerolog.Logger, opts ...ServiceOption) Service {
	s := &service{
		repo:  repo,
		store: store,
		log:   log.With().Str("component", "preferences").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Set(ctx context.Context, pref *Preference) (*Preference, error) {
	pref.UserKey = strings.TrimSpace(pref.UserKey)
	pref.Name = strings.TrimSpace(pref.Name)

	if pref.UserKey == "" {
		return nil, ErrUserKeyRequired
	}
	if pref.Name == "" {
		return nil, ErrNameRequired
	}
	if len(pref.Value) == 0 {
		return nil, ErrValueRequired
	}

	if !s.usable() {
		return nil, ErrStoreUnavailable
	}

	saved, err := s.repo.Set(ctx, pref)
	if err != nil {
		return nil, fmt.Errorf("failed to set preference: %w", err)
	}

	s.recordAudit(ctx, saved)

	return saved, nil
}

func (s *service) Get(ctx context.Context, userKey, name string) (*Preference, error) {
	userKey = strings.TrimSpace(userKey)
	name = strings.TrimSpace(name)

	if userKey == "" {
		return nil, ErrUserKeyRequired
	}
	if name == "" {
		return nil, ErrNameRequired
	}

	if !s.usable() {
		return nil, ErrStoreUnavailable
	}

	return s.repo.Get(ctx, userKey, name)
}

func (s *service) ListByUser(ctx context.Context, userKey string) ([]*Preference, error) {
	userKey = strings.TrimSpace(userKey)
	if userKey == "" {
		return nil, ErrUserKeyRequired
	}

	if !s.usable() {
		return nil, ErrStoreUnavailable
	}

	prefs, err := s.repo.ListByUser(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}

	return prefs, nil
}

func (s *service) usable() bool {
	return s.repo != nil && s.store.Available()
}

// recordAudit is best-effort: a failed write never fails the set.
func (s *service) recordAudit(ctx context.Context, pref *Preference) {
	if s.auditor == nil {
		return
	}

	entry := &audit.Entry{
		Action:     audit.ActionPreferenceSet,
		EntityType: audit.EntityPreference,
		EntityID:   fmt.Sprintf("%s/%s", pref.UserKey, pref.Name),
		ActorKey:   pref.UserKey,
		Details: map[string]any{
			"preference_id": pref.ID,
			"name":          pref.Name,
		},
	}
	if err := s.auditor.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("user_key", pref.UserKey).Msg("failed to record preference audit entry")
	}
}
