package preferences

import (
	"encoding/json"
	"time"
)

// Preference is a single named setting for a user key. Value holds
// arbitrary JSON so callers can store strings, numbers, or objects.
type Preference struct {
	ID        int64           `json:"id"`
	UserKey   string          `json:"user_key"`
	Name      string          `json:"name"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}
