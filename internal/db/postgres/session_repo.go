package postgres

import (
	"Gramcache/internal/core/sessions"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type postgresSessionRepo struct {
	db *sql.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sql.DB) sessions.Repository {
	return &postgresSessionRepo{db: db}
}

// Upsert replaces the session stored for its key, keeping created_at
// from the original row.
func (r *postgresSessionRepo) Upsert(ctx context.Context, session *sessions.Session) (*sessions.Session, error) {
	contextJSON, err := marshalJSONB(session.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session context: %w", err)
	}

	var userID sql.NullString
	if session.UserID != "" {
		userID.String = session.UserID
		userID.Valid = true
	}

	query := `
		INSERT INTO sessions (session_key, user_id, context, last_message)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_key) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    context = EXCLUDED.context,
		    last_message = EXCLUDED.last_message,
		    updated_at = NOW()
		RETURNING id, session_key, user_id, context, last_message, created_at, updated_at`

	saved, err := scanSession(r.db.QueryRowContext(ctx, query,
		session.SessionKey, userID, contextJSON, session.LastMessage))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert session: %w", err)
	}

	return saved, nil
}

func (r *postgresSessionRepo) GetByKey(ctx context.Context, key string) (*sessions.Session, error) {
	query := `
		SELECT id, session_key, user_id, context, last_message, created_at, updated_at
		FROM sessions
		WHERE session_key = $1`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, key))
	if err == sql.ErrNoRows {
		return nil, sessions.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by key: %w", err)
	}

	return session, nil
}

func scanSession(row rowScanner) (*sessions.Session, error) {
	s := &sessions.Session{}
	var userID sql.NullString
	var contextJSON []byte

	err := row.Scan(&s.ID, &s.SessionKey, &userID, &contextJSON,
		&s.LastMessage, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.UserID = userID.String
	if len(contextJSON) > 0 {
		if err := json.Unmarshal(contextJSON, &s.Context); err != nil {
			return nil, fmt.Errorf("failed to decode session context: %w", err)
		}
	}

	return s, nil
}

// marshalJSONB encodes a map for a jsonb column, storing an empty
// object rather than SQL NULL when the map is nil.
func marshalJSONB(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte(`{}`), nil
	}
	return json.Marshal(m)
}
