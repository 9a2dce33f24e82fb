package audit

import "time"

// Actions recorded in the audit log
const (
	ActionMediaExtracted  = "media_extracted"
	ActionSessionUpserted = "session_upserted"
	ActionPreferenceSet   = "preference_set"
)

// Entity types referenced by audit entries
const (
	EntityDownload   = "download"
	EntitySession    = "session"
	EntityPreference = "preference"
)

// Entry is one append-only audit record. Entries are never updated or
// deleted after insertion.
type Entry struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	ActorKey   string         `json:"actor_key,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
