package postgres

import (
	"Gramcache/internal/core/audit"
	"context"
	"database/sql"
	"fmt"
)

type postgresAuditRepo struct {
	db *sql.DB
}

// NewAuditRepository creates a new PostgreSQL audit log repository
func NewAuditRepository(db *sql.DB) audit.Recorder {
	return &postgresAuditRepo{db: db}
}

// Record appends one entry to the audit log. Rows are never updated
// or deleted.
func (r *postgresAuditRepo) Record(ctx context.Context, entry *audit.Entry) error {
	detailsJSON, err := marshalJSONB(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	var actorKey sql.NullString
	if entry.ActorKey != "" {
		actorKey.String = entry.ActorKey
		actorKey.Valid = true
	}

	query := `
		INSERT INTO audit_logs (action, entity_type, entity_id, actor_key, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query,
		entry.Action, entry.EntityType, entry.EntityID, actorKey, detailsJSON).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}
