package downloads

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedURL is returned when the submitted URL is not an
	// Instagram post link. Surfaced to callers as a client error.
	ErrUnsupportedURL = errors.New("unsupported URL: not an instagram post")

	// ErrStoreUnavailable is returned by read-only store projections
	// (history, analytics, stats) when no usable store exists. Resolve
	// never returns it; degradation there is silent.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ExtractionFailedError wraps an extractor failure so handlers can tell
// it apart from validation errors. The underlying error is preserved for
// errors.Is/As checks against the extractor's own taxonomy.
type ExtractionFailedError struct {
	SourceURL string
	Err       error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.SourceURL, e.Err)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Err
}

// IsExtractionFailed reports whether err is an extraction failure.
func IsExtractionFailed(err error) bool {
	var e *ExtractionFailedError
	return errors.As(err, &e)
}
