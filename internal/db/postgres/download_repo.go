package postgres

import (
	"Gramcache/internal/core/downloads"
	"context"
	"database/sql"
	"fmt"
)

type postgresDownloadRepo struct {
	db *sql.DB
}

// NewDownloadRepository creates a new PostgreSQL download repository
func NewDownloadRepository(db *sql.DB) downloads.Repository {
	return &postgresDownloadRepo{db: db}
}

const downloadColumns = `id, source_url, media_url, media_type, filename, caption, status, download_count, created_at, last_accessed_at`

// FindByURL retrieves the cached record for a source URL.
// Only success rows qualify; returns nil, nil when no usable row exists.
func (r *postgresDownloadRepo) FindByURL(ctx context.Context, sourceURL string) (*downloads.Download, error) {
	query := `
		SELECT ` + downloadColumns + `
		FROM downloads
		WHERE source_url = $1 AND status = 'success'`

	d, err := scanDownload(r.db.QueryRowContext(ctx, query, sourceURL))
	if err == sql.ErrNoRows {
		// A miss is not an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find download by url: %w", err)
	}

	return d, nil
}

// TouchAccess bumps last_accessed_at and download_count for a cache hit.
func (r *postgresDownloadRepo) TouchAccess(ctx context.Context, id int64) error {
	query := `
		UPDATE downloads
		SET last_accessed_at = NOW(),
		    download_count = download_count + 1
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to touch download access: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check touched rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no download with id %d", id)
	}

	return nil
}

// Upsert inserts or updates the record keyed by source_url. On conflict
// the mutable fields are overwritten and created_at is left alone.
func (r *postgresDownloadRepo) Upsert(ctx context.Context, d *downloads.Download) (*downloads.Download, error) {
	var caption sql.NullString
	if d.Caption != "" {
		caption.String = d.Caption
		caption.Valid = true
	}

	query := `
		INSERT INTO downloads (source_url, media_url, media_type, filename, caption, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (source_url) DO UPDATE
		SET media_url = EXCLUDED.media_url,
		    media_type = EXCLUDED.media_type,
		    filename = EXCLUDED.filename,
		    caption = EXCLUDED.caption,
		    status = EXCLUDED.status,
		    download_count = downloads.download_count + 1,
		    last_accessed_at = NOW()
		RETURNING ` + downloadColumns

	persisted, err := scanDownload(r.db.QueryRowContext(ctx, query,
		d.SourceURL, d.MediaURL, d.MediaType, d.Filename, caption, d.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert download: %w", err)
	}

	return persisted, nil
}

// RecentHistory returns up to limit records ordered by most recent access.
func (r *postgresDownloadRepo) RecentHistory(ctx context.Context, limit int) ([]*downloads.Download, error) {
	query := `
		SELECT ` + downloadColumns + `
		FROM downloads
		ORDER BY last_accessed_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query download history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*downloads.Download, 0, limit)
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan download row: %w", err)
		}
		records = append(records, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating download rows: %w", err)
	}

	return records, nil
}

// AggregateByDayAndType counts records per day per media type created
// within the period, a Postgres interval string such as "7 days".
func (r *postgresDownloadRepo) AggregateByDayAndType(ctx context.Context, period string) ([]downloads.DailyCount, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day, media_type, COUNT(*) AS count
		FROM downloads
		WHERE created_at >= NOW() - $1::interval
		GROUP BY day, media_type
		ORDER BY day DESC, media_type`

	rows, err := r.db.QueryContext(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate downloads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make([]downloads.DailyCount, 0)
	for rows.Next() {
		var c downloads.DailyCount
		if err := rows.Scan(&c.Day, &c.MediaType, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count row: %w", err)
		}
		counts = append(counts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily count rows: %w", err)
	}

	return counts, nil
}

// TopByDownloadCount returns the most requested success records.
func (r *postgresDownloadRepo) TopByDownloadCount(ctx context.Context, limit int) ([]*downloads.Download, error) {
	query := `
		SELECT ` + downloadColumns + `
		FROM downloads
		WHERE status = 'success'
		ORDER BY download_count DESC, last_accessed_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top downloads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*downloads.Download, 0, limit)
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan download row: %w", err)
		}
		records = append(records, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating download rows: %w", err)
	}

	return records, nil
}

// Stats returns row counts per media type.
func (r *postgresDownloadRepo) Stats(ctx context.Context) (*downloads.Stats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE media_type = 'video') AS videos,
			COUNT(*) FILTER (WHERE media_type = 'image') AS images
		FROM downloads`

	stats := &downloads.Stats{}
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Videos, &stats.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to get download stats: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDownload(row rowScanner) (*downloads.Download, error) {
	d := &downloads.Download{}
	var caption sql.NullString

	err := row.Scan(&d.ID, &d.SourceURL, &d.MediaURL, &d.MediaType, &d.Filename,
		&caption, &d.Status, &d.DownloadCount, &d.CreatedAt, &d.LastAccessedAt)
	if err != nil {
		return nil, err
	}

	d.Caption = caption.String
	return d, nil
}
