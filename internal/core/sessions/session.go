package sessions

import "time"

// Session is a lightweight conversational context keyed by a
// caller-supplied session key, one row per key.
type Session struct {
	ID          int64          `json:"id"`
	SessionKey  string         `json:"session_key"`
	UserID      string         `json:"user_id,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
	LastMessage string         `json:"last_message,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
