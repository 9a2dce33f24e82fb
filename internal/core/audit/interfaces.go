package audit

import "context"

// Recorder persists audit entries.
type Recorder interface {
	// Record appends one entry. Writers treat failures as best-effort:
	// an audit miss never fails the operation being audited.
	Record(ctx context.Context, e *Entry) error
}
