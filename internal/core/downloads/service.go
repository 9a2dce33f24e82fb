package downloads

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"Gramcache/internal/core/audit"
	"Gramcache/internal/metrics"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100

	defaultTopLimit        = 5
	defaultAnalyticsPeriod = "7 days"
)

// Host markers for accepted post URLs. Matching is substring-based;
// the extractor is the real arbiter of what resolves.
var hostMarkers = []string{"instagram.com", "instagr.am"}

// periodPattern bounds what we hand Postgres as an interval.
var periodPattern = regexp.MustCompile(`^[0-9]+ (hour|day|week|month)s?$`)

type service struct {
	repo      Repository
	extractor Extractor
	store     StoreState
	auditor   audit.Recorder
	log       zerolog.Logger
}

// NewService creates the resolve service. repo may be nil when no store
// is configured; store must then report unavailable forever.
func NewService(repo Repository, extractor Extractor, store StoreState, log zerolog.Logger, opts ...ServiceOption) Service {
	s := &service{
		repo:      repo,
		extractor: extractor,
		store:     store,
		log:       log.With().Str("component", "downloads").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ServiceOption configures the service
type ServiceOption func(*service)

// WithAuditor enables best-effort audit entries for persisted extractions.
func WithAuditor(a audit.Recorder) ServiceOption {
	return func(s *service) {
		s.auditor = a
	}
}

// IsSupported reports whether the URL passes the accepted-domain check.
func (s *service) IsSupported(sourceURL string) bool {
	return isPostURL(strings.TrimSpace(sourceURL))
}

// Resolve serves a media record from the store when it can and extracts
// otherwise. Store failures never fail the call; only validation and
// extraction errors propagate.
func (s *service) Resolve(ctx context.Context, sourceURL string, forceRefresh bool) (*Result, error) {
	sourceURL = strings.TrimSpace(sourceURL)

	// 1. Validate before any store or network call.
	if !isPostURL(sourceURL) {
		metrics.RecordResolve(metrics.OutcomeInvalid)
		return nil, ErrUnsupportedURL
	}

	storeUsable := s.storeUsable()

	// 2. Cache lookup, unless bypassed or degraded.
	if !forceRefresh && storeUsable {
		cached, err := s.repo.FindByURL(ctx, sourceURL)
		if err != nil {
			// A failed read degrades to a miss; the request continues.
			metrics.RecordStoreOperation("find_by_url", "failure")
			s.store.RecordFailure(err)
			s.log.Warn().Err(err).Str("url", sourceURL).Msg("cache lookup failed, treating as miss")
		} else {
			metrics.RecordStoreOperation("find_by_url", "success")
			s.store.RecordSuccess()
			if cached != nil {
				s.touchAccess(ctx, cached)
				metrics.RecordResolve(metrics.OutcomeHit)
				s.log.Debug().Str("url", sourceURL).Msg("cache hit")
				return &Result{Download: cached, Cached: true}, nil
			}
		}
	}

	branch := metrics.OutcomeMiss
	switch {
	case forceRefresh:
		branch = metrics.OutcomeForced
	case !storeUsable:
		branch = metrics.OutcomeDegraded
	}

	// 3. Extract.
	started := time.Now()
	extraction, err := s.extractor.Extract(ctx, sourceURL)
	if err != nil {
		metrics.RecordExtraction("failure", time.Since(started).Seconds())
		metrics.RecordResolve(metrics.OutcomeFailed)
		s.log.Warn().Err(err).Str("url", sourceURL).Msg("extraction failed")
		return nil, &ExtractionFailedError{SourceURL: sourceURL, Err: err}
	}
	metrics.RecordExtraction("success", time.Since(started).Seconds())

	now := time.Now().UTC()
	download := &Download{
		SourceURL:      sourceURL,
		MediaURL:       extraction.MediaURL,
		MediaType:      extraction.MediaType,
		Filename:       extraction.Filename,
		Caption:        extraction.Caption,
		Status:         StatusSuccess,
		DownloadCount:  1,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	// 4. Write through, best-effort. The extraction result stands either way.
	if s.storeUsable() {
		persisted, upsertErr := s.repo.Upsert(ctx, download)
		if upsertErr != nil {
			metrics.RecordStoreOperation("upsert", "failure")
			s.store.RecordFailure(upsertErr)
			s.log.Warn().Err(upsertErr).Str("url", sourceURL).Msg("failed to cache extraction result")
		} else {
			metrics.RecordStoreOperation("upsert", "success")
			s.store.RecordSuccess()
			download = persisted
			s.recordAudit(ctx, download, forceRefresh)
		}
	}

	metrics.RecordResolve(branch)
	s.log.Info().
		Str("url", sourceURL).
		Str("media_type", download.MediaType).
		Bool("forced", forceRefresh).
		Msg("resolved media")

	return &Result{Download: download, Cached: false}, nil
}

// History returns recently accessed records, newest first.
func (s *service) History(ctx context.Context, limit int) ([]*Download, error) {
	if !s.storeUsable() {
		return nil, ErrStoreUnavailable
	}

	limit = clampLimit(limit, defaultHistoryLimit)

	records, err := s.repo.RecentHistory(ctx, limit)
	if err != nil {
		metrics.RecordStoreOperation("recent_history", "failure")
		s.store.RecordFailure(err)
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	metrics.RecordStoreOperation("recent_history", "success")
	s.store.RecordSuccess()
	return records, nil
}

// Analytics returns the per-day and top-downloads projections for the
// period, a Postgres interval string such as "7 days".
func (s *service) Analytics(ctx context.Context, period string, limit int) (*Analytics, error) {
	if !s.storeUsable() {
		return nil, ErrStoreUnavailable
	}

	period = strings.TrimSpace(period)
	if period == "" || !periodPattern.MatchString(period) {
		period = defaultAnalyticsPeriod
	}
	limit = clampLimit(limit, defaultTopLimit)

	daily, err := s.repo.AggregateByDayAndType(ctx, period)
	if err != nil {
		metrics.RecordStoreOperation("aggregate_by_day", "failure")
		s.store.RecordFailure(err)
		return nil, fmt.Errorf("failed to aggregate downloads: %w", err)
	}
	metrics.RecordStoreOperation("aggregate_by_day", "success")

	top, err := s.repo.TopByDownloadCount(ctx, limit)
	if err != nil {
		metrics.RecordStoreOperation("top_by_count", "failure")
		s.store.RecordFailure(err)
		return nil, fmt.Errorf("failed to load top downloads: %w", err)
	}
	metrics.RecordStoreOperation("top_by_count", "success")
	s.store.RecordSuccess()

	return &Analytics{Period: period, Daily: daily, Top: top}, nil
}

// Stats returns aggregate counts for the status endpoint.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	if !s.storeUsable() {
		return nil, ErrStoreUnavailable
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		metrics.RecordStoreOperation("stats", "failure")
		s.store.RecordFailure(err)
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	metrics.RecordStoreOperation("stats", "success")
	s.store.RecordSuccess()
	return stats, nil
}

// touchAccess bumps access tracking for a hit. Failures never affect the
// in-flight request.
func (s *service) touchAccess(ctx context.Context, d *Download) {
	if err := s.repo.TouchAccess(ctx, d.ID); err != nil {
		metrics.RecordStoreOperation("touch_access", "failure")
		s.store.RecordFailure(err)
		s.log.Warn().Err(err).Str("url", d.SourceURL).Msg("failed to touch access timestamp")
		return
	}
	metrics.RecordStoreOperation("touch_access", "success")
	s.store.RecordSuccess()
}

func (s *service) recordAudit(ctx context.Context, d *Download, forced bool) {
	if s.auditor == nil {
		return
	}

	entry := &audit.Entry{
		Action:     audit.ActionMediaExtracted,
		EntityType: audit.EntityDownload,
		EntityID:   d.SourceURL,
		Details: map[string]any{
			"media_type": d.MediaType,
			"filename":   d.Filename,
			"forced":     forced,
		},
	}
	if err := s.auditor.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("url", d.SourceURL).Msg("failed to record audit entry")
	}
}

func (s *service) storeUsable() bool {
	return s.repo != nil && s.store.Available()
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}

func isPostURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	lower := strings.ToLower(rawURL)
	for _, marker := range hostMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
