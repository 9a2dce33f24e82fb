// Package instagram extracts direct media URLs from public Instagram
// post pages. One extraction is one outbound fetch; parsing prefers
// og:video over og:image and falls back to embedded structured data.
package instagram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"Gramcache/internal/core/downloads"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// Meta tags live in <head>; reading past this buys nothing.
	maxBodyBytes = 2 * 1024 * 1024

	maxCaptionLength = 200
)

// Extractor scrapes a post page for its media URL.
// It implements downloads.Extractor.
type Extractor struct {
	client    *http.Client
	userAgent string
	now       func() time.Time
	log       zerolog.Logger
}

// New creates an extractor with a bounded fetch timeout.
func New(log zerolog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
		now:       time.Now,
		log:       log.With().Str("component", "instagram").Logger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures the extractor
type Option func(*Extractor)

// WithTimeout sets the outbound fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Extractor) {
		e.client.Timeout = timeout
	}
}

// WithUserAgent overrides the browser identity header.
func WithUserAgent(userAgent string) Option {
	return func(e *Extractor) {
		e.userAgent = userAgent
	}
}

// WithClock pins the timestamp source used for filenames.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// Extract fetches the post page once and pulls out its media metadata.
// It never retries and never touches storage.
func (e *Extractor) Extract(ctx context.Context, sourceURL string) (*downloads.Extraction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, &ExtractionError{
			Kind:    KindParseFailure,
			URL:     sourceURL,
			Message: "invalid post URL",
			Err:     err,
		}
	}

	for key, value := range requestHeaders(e.userAgent) {
		req.Header.Set(key, value)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &ExtractionError{
				Kind:    KindTimeout,
				URL:     sourceURL,
				Message: "post fetch timed out",
				Err:     err,
			}
		}
		return nil, &ExtractionError{
			Kind:    KindParseFailure,
			URL:     sourceURL,
			Message: "post fetch failed",
			Err:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, &ExtractionError{
			Kind:       KindNotFound,
			URL:        sourceURL,
			StatusCode: resp.StatusCode,
			Message:    "post not found",
		}
	case resp.StatusCode != http.StatusOK:
		return nil, &ExtractionError{
			Kind:       KindParseFailure,
			URL:        sourceURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("post fetch returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		kind := KindParseFailure
		message := "failed to read post page"
		if isTimeout(err) {
			kind = KindTimeout
			message = "post fetch timed out"
		}
		return nil, &ExtractionError{Kind: kind, URL: sourceURL, Message: message, Err: err}
	}

	media, err := parseMedia(body)
	if err != nil {
		if errors.Is(err, errNoMedia) {
			return nil, &ExtractionError{
				Kind:    KindNotFound,
				URL:     sourceURL,
				Message: "no media found in post page",
			}
		}
		return nil, &ExtractionError{
			Kind:    KindParseFailure,
			URL:     sourceURL,
			Message: "malformed post page",
			Err:     err,
		}
	}

	e.log.Debug().
		Str("url", sourceURL).
		Str("media_type", media.mediaType).
		Msg("extracted media")

	return &downloads.Extraction{
		MediaURL:  media.url,
		MediaType: media.mediaType,
		Filename:  e.filename(media.mediaType),
		Caption:   truncateCaption(media.caption),
	}, nil
}

// filename derives a name from the wall clock. Same-millisecond
// collisions across types are acceptable: source_url is the real key
// and filenames are never used as identifiers.
func (e *Extractor) filename(mediaType string) string {
	ext := "jpg"
	if mediaType == downloads.MediaTypeVideo {
		ext = "mp4"
	}
	return fmt.Sprintf("instagram_%d.%s", e.now().UnixMilli(), ext)
}

func truncateCaption(caption string) string {
	caption = strings.TrimSpace(caption)
	runes := []rune(caption)
	if len(runes) <= maxCaptionLength {
		return caption
	}
	return string(runes[:maxCaptionLength])
}

func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"DNT":             "1",
		"Connection":      "keep-alive",
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
