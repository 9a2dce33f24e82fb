package downloads

import "context"

// Extractor scrapes a post page and returns its media metadata.
// Implementations perform exactly one outbound fetch per call, never
// retry, and never touch the store. URL validation happens before the
// extractor is invoked, so implementations may assume a plausible URL.
type Extractor interface {
	Extract(ctx context.Context, sourceURL string) (*Extraction, error)
}

// Repository defines persistence for cached media resolutions.
type Repository interface {
	// FindByURL retrieves the cached record for a source URL.
	// Only rows with status "success" qualify as cache hits.
	// Returns nil, nil when no usable row exists (not an error condition).
	// Returns error only on database failures.
	FindByURL(ctx context.Context, sourceURL string) (*Download, error)

	// TouchAccess bumps last_accessed_at and download_count for a cache hit.
	// Callers treat failures as best-effort: log and continue.
	TouchAccess(ctx context.Context, id int64) error

	// Upsert inserts or updates the record keyed by source_url.
	// On conflict the mutable fields and last_accessed_at are overwritten;
	// created_at is never rewound. Returns the persisted row.
	Upsert(ctx context.Context, d *Download) (*Download, error)

	// RecentHistory returns up to limit records ordered by most recent access.
	RecentHistory(ctx context.Context, limit int) ([]*Download, error)

	// AggregateByDayAndType counts records per day per media type created
	// within the period, a Postgres interval string such as "7 days".
	AggregateByDayAndType(ctx context.Context, period string) ([]DailyCount, error)

	// TopByDownloadCount returns up to limit records ordered by download_count.
	TopByDownloadCount(ctx context.Context, limit int) ([]*Download, error)

	// Stats returns row counts per media type.
	Stats(ctx context.Context) (*Stats, error)
}

// StoreState reports whether the backing store is usable right now.
// A false answer means "skip the store", never a request failure.
type StoreState interface {
	Available() bool

	// RecordSuccess and RecordFailure feed the optional demote-on-repeated-
	// failure policy; implementations without that policy may no-op.
	RecordSuccess()
	RecordFailure(err error)
}

// Service resolves post URLs to direct media URLs, memoizing results.
type Service interface {
	// Resolve returns the media record for a post URL, serving it from
	// the store when possible and extracting otherwise. The result always
	// says which branch was taken.
	Resolve(ctx context.Context, sourceURL string, forceRefresh bool) (*Result, error)

	// History returns recently accessed records, newest first.
	History(ctx context.Context, limit int) ([]*Download, error)

	// Analytics returns the per-day and top-downloads projections.
	Analytics(ctx context.Context, period string, limit int) (*Analytics, error)

	// Stats returns aggregate counts for the status endpoint.
	Stats(ctx context.Context) (*Stats, error)

	// IsSupported reports whether the URL passes the accepted-domain check.
	IsSupported(sourceURL string) bool
}
