package sessions

import (
	"Gramcache/internal/core/audit"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Upsert(ctx context.Context, session *Session) (*Session, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockRepository) GetByKey(ctx context.Context, key string) (*Session, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type stubStore struct {
	available bool
}

func (s *stubStore) Available() bool { return s.available }

func testSession() *Session {
	return &Session{
		SessionKey:  "chat-42",
		UserID:      "user-7",
		Context:     map[string]any{"topic": "reels"},
		LastMessage: "send me that link again",
	}
}

func persistedSession() *Session {
	s := testSession()
	s.ID = 11
	s.CreatedAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.UpdatedAt = s.CreatedAt
	return s
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and returns the stored row", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, &stubStore{available: true}, zerolog.Nop())

		repo.On("Upsert", ctx, mock.AnythingOfType("*sessions.Session")).Return(persistedSession(), nil)

		saved, err := svc.Save(ctx, testSession())

		require.NoError(t, err)
		assert.Equal(t, int64(11), saved.ID)
		assert.Equal(t, "chat-42", saved.SessionKey)
		repo.AssertExpectations(t)
	})

	t.Run("trims the session key before validating", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, &stubStore{available: true}, zerolog.Nop())

		repo.On("Upsert", ctx, mock.MatchedBy(func(s *Session) bool {
			return s.SessionKey == "chat-42"
		})).Return(persistedSession(), nil)

		in := testSession()
		in.SessionKey = "  chat-42  "
		_, err := svc.Save(ctx, in)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a blank session key", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, &stubStore{available: true}, zerolog.Nop())

		in := testSession()
		in.SessionKey = "   "
		_, err := svc.Save(ctx, in)

		assert.ErrorIs(t, err, ErrSessionKeyRequired)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("fails when the store is unavailable", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, &stubStore{available: false}, zerolog.Nop())

		_, err := svc.Save(ctx, testSession())

		assert.ErrorIs(t, err, ErrStoreUnavailable)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("fails when no repository is configured", func(t *testing.T) {
		svc := NewService(nil, &stubStore{available: true}, zerolog.Nop())

		_, err := svc.Save(ctx, testSession())

		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})

	t.Run("wraps repository failures", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, &stubStore{available: true}, zerolog.Nop())

		repo.On("Upsert", ctx, mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := svc.Save(ctx, testSession())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save session")
	})

	t.Run("records an audit entry after a successful save", func(t *testing.T) {
		repo := new(MockRepository)
		auditor := new(MockAuditor)
		svc := NewService(repo, &stubStore{available: true}, zerolog.Nop(), WithAuditor(auditor))

		repo.On("Upsert", ctx, mock.Anything).Return(persistedSession(), nil)
		auditor.On("Record", ctx, mock.MatchedBy(func(e *audit.Entry) bool {
			return e.Action == audit.ActionSessionUpserted && e.EntityID == "chat-42"
		})).Return(nil)

		_, err := svc.Save(ctx, testSession())

		require.NoError(t, err)
		auditor.AssertExpectations(t)
	})

	t.Run("audit failures do not fail the save", func(t *testing.T) {
		repo := new(MockRepository)
		auditor := new(MockAuditor)
		svc := NewService(repo, &stubStore{available: true}, zerolog.Nop(), WithAuditor(auditor))

		repo.On("Upsert", ctx, mock.Anything).Return(persistedSession(), nil)
		auditor.On("Record", ctx, mock.Anything).Return(errors.New("audit table locked"))

		saved, err := svc.Save(ctx, testSession())

		require.NoError(t, err)
		assert.Equal(t, int64(11), saved.ID)
	})
}

func TestService_GetByKey(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored session", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, &stubStore{available: true}, zerolog.Nop())

		repo.On("GetByKey", ctx, "chat-42").Return(persistedSession(), nil)

		session, err := svc.GetByKey(ctx, "chat-42")

		require.NoError(t, err)
		assert.Equal(t, "user-7", session.UserID)
		assert.Equal(t, "reels", session.Context["topic"])
	})

	t.Run("passes not-found through unchanged", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, &stubStore{available: true}, zerolog.Nop())

		repo.On("GetByKey", ctx, "missing").Return(nil, ErrSessionNotFound)

		_, err := svc.GetByKey(ctx, "missing")

		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("rejects a blank key", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, &stubStore{available: true}, zerolog.Nop())

		_, err := svc.GetByKey(ctx, "")

		assert.ErrorIs(t, err, ErrSessionKeyRequired)
		repo.AssertNotCalled(t, "GetByKey", mock.Anything, mock.Anything)
	})

	t.Run("fails when the store is unavailable", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, &stubStore{available: false}, zerolog.Nop())

		_, err := svc.GetByKey(ctx, "chat-42")

		assert.ErrorIs(t, err, ErrStoreUnavailable)
		repo.AssertNotCalled(t, "GetByKey", mock.Anything, mock.Anything)
	})
}
