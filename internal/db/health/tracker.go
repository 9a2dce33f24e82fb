// Package health tracks whether the backing store is usable. The
// startup probe writes the flag once; the resolve path and the HTTP
// surface read it before every store-touching decision.
package health

import (
	"sync"

	"github.com/rs/zerolog"
)

// State of the store as seen by the tracker
type State int

const (
	// StateUnavailable is the initial state; terminal when no store is configured
	StateUnavailable State = iota
	// StateAvailable is reached after a successful connectivity probe
	StateAvailable
)

func (s State) String() string {
	if s == StateAvailable {
		return "available"
	}
	return "unavailable"
}

// Tracker is the process-wide store availability flag. It starts
// unavailable and is promoted at most once per probe attempt. Reads are
// a cheap RLock; a request that races a state flip may take either code
// path, which callers must tolerate.
type Tracker struct {
	mu               sync.RWMutex
	state            State
	consecutiveFails int
	failureThreshold int
	log              zerolog.Logger
}

// NewTracker creates a tracker in the unavailable state.
func NewTracker(log zerolog.Logger, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		state: StateUnavailable,
		log:   log.With().Str("component", "store-health").Logger(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// TrackerOption configures the tracker
type TrackerOption func(*Tracker)

// WithFailureThreshold demotes the tracker to unavailable after n
// consecutive store failures. Zero (the default) keeps demotion off:
// failures stay per-call and never flip global state.
func WithFailureThreshold(n int) TrackerOption {
	return func(t *Tracker) {
		t.failureThreshold = n
	}
}

// Available reports whether store calls should be attempted.
func (t *Tracker) Available() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state == StateAvailable
}

// State returns the current availability state.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// MarkAvailable promotes the tracker after a successful probe.
func (t *Tracker) MarkAvailable() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateAvailable {
		return
	}
	t.state = StateAvailable
	t.consecutiveFails = 0
	t.log.Info().Msg("store is now available")
}

// MarkUnavailable records that the store cannot be used and why.
func (t *Tracker) MarkUnavailable(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateUnavailable {
		t.log.Info().Str("reason", reason).Msg("store stays unavailable")
		return
	}
	t.state = StateUnavailable
	t.consecutiveFails = 0
	t.log.Warn().Str("reason", reason).Msg("store is now unavailable")
}

// RecordSuccess resets the failure streak for the demotion policy.
func (t *Tracker) RecordSuccess() {
	if t.failureThreshold <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.consecutiveFails = 0
}

// RecordFailure counts a store failure. With the demotion policy
// enabled, the tracker flips to unavailable once the streak reaches
// the threshold.
func (t *Tracker) RecordFailure(err error) {
	if t.failureThreshold <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateAvailable {
		return
	}
	t.consecutiveFails++
	if t.consecutiveFails >= t.failureThreshold {
		t.state = StateUnavailable
		t.log.Warn().
			Err(err).
			Int("failures", t.consecutiveFails).
			Msg("store demoted after repeated failures")
		t.consecutiveFails = 0
	}
}
