package downloads

import "time"

// Media types a post can resolve to
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Record statuses; only StatusSuccess rows are cache-hit eligible
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Download is one cached media resolution, keyed by its source URL.
// The id is a storage surrogate; source_url is the real cache key.
type Download struct {
	ID             int64     `json:"id"`
	SourceURL      string    `json:"source_url"`
	MediaURL       string    `json:"media_url"`
	MediaType      string    `json:"media_type"` // "image" or "video"
	Filename       string    `json:"filename"`
	Caption        string    `json:"caption,omitempty"`
	Status         string    `json:"status"`
	DownloadCount  int64     `json:"download_count"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// Extraction is what the extractor pulls out of a post page.
type Extraction struct {
	MediaURL  string
	MediaType string
	Filename  string
	Caption   string
}

// Result is the outcome of a resolve: the record plus whether it was
// served from the store instead of a fresh extraction.
type Result struct {
	Download *Download `json:"download"`
	Cached   bool      `json:"cached"`
}

// DailyCount is one row of the per-day per-type analytics projection.
type DailyCount struct {
	Day       time.Time `json:"day"`
	MediaType string    `json:"media_type"`
	Count     int64     `json:"count"`
}

// Analytics bundles the read-only projections served by /analytics.
type Analytics struct {
	Period string       `json:"period"`
	Daily  []DailyCount `json:"daily"`
	Top    []*Download  `json:"top"`
}

// Stats summarizes the cache for the status endpoint.
type Stats struct {
	Total  int64 `json:"total"`
	Videos int64 `json:"videos"`
	Images int64 `json:"images"`
}
