package instagram

import (
	"errors"
	"fmt"
)

// Kind classifies an extraction failure.
type Kind string

const (
	// KindNotFound covers 404/410 responses and pages with no media reference
	KindNotFound Kind = "not_found"

	// KindTimeout covers fetches cut off by the client timeout or context
	KindTimeout Kind = "timeout"

	// KindParseFailure covers malformed pages and unexpected origin responses
	KindParseFailure Kind = "parse_failure"
)

// ExtractionError describes why a post could not be resolved.
type ExtractionError struct {
	Kind       Kind
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a not-found extraction failure.
func IsNotFound(err error) bool {
	return hasKind(err, KindNotFound)
}

// IsTimeout reports whether err is a timeout extraction failure.
func IsTimeout(err error) bool {
	return hasKind(err, KindTimeout)
}

// IsParseFailure reports whether err is a parse-class extraction failure.
func IsParseFailure(err error) bool {
	return hasKind(err, KindParseFailure)
}

func hasKind(err error, kind Kind) bool {
	var e *ExtractionError
	return errors.As(err, &e) && e.Kind == kind
}
