package postgres

import (
	"Gramcache/internal/core/preferences"
	"context"
	"database/sql"
	"fmt"
)

type postgresPreferenceRepo struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new PostgreSQL preference repository
func NewPreferenceRepository(db *sql.DB) preferences.Repository {
	return &postgresPreferenceRepo{db: db}
}

func (r *postgresPreferenceRepo) Set(ctx context.Context, pref *preferences.Preference) (*preferences.Preference, error) {
	query := `
		INSERT INTO user_preferences (user_key, name, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_key, name) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = NOW()
		RETURNING id, user_key, name, value, updated_at`

	saved, err := scanPreference(r.db.QueryRowContext(ctx, query,
		pref.UserKey, pref.Name, []byte(pref.Value)))
	if err != nil {
		return nil, fmt.Errorf("failed to set preference: %w", err)
	}

	return saved, nil
}

func (r *postgresPreferenceRepo) Get(ctx context.Context, userKey, name string) (*preferences.Preference, error) {
	query := `
		SELECT id, user_key, name, value, updated_at
		FROM user_preferences
		WHERE user_key = $1 AND name = $2`

	pref, err := scanPreference(r.db.QueryRowContext(ctx, query, userKey, name))
	if err == sql.ErrNoRows {
		return nil, preferences.ErrPreferenceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	return pref, nil
}

func (r *postgresPreferenceRepo) ListByUser(ctx context.Context, userKey string) ([]*preferences.Preference, error) {
	query := `
		SELECT id, user_key, name, value, updated_at
		FROM user_preferences
		WHERE user_key = $1
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	prefs := make([]*preferences.Preference, 0)
	for rows.Next() {
		pref, err := scanPreference(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preference row: %w", err)
		}
		prefs = append(prefs, pref)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preference rows: %w", err)
	}

	return prefs, nil
}

func scanPreference(row rowScanner) (*preferences.Preference, error) {
	p := &preferences.Preference{}
	var value []byte

	err := row.Scan(&p.ID, &p.UserKey, &p.Name, &value, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Value = value
	return p, nil
}
