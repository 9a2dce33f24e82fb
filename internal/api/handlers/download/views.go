package download

import (
	"Gramcache/internal/core/downloads"
	"time"
)

// mediaView is the JSON shape served for one resolved post.
type mediaView struct {
	SourceURL      string    `json:"source_url"`
	Type           string    `json:"type"`
	DownloadURL    string    `json:"download_url"`
	Filename       string    `json:"filename"`
	Caption        string    `json:"caption,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

func newMediaView(d *downloads.Download) mediaView {
	return mediaView{
		SourceURL:      d.SourceURL,
		Type:           d.MediaType,
		DownloadURL:    d.MediaURL,
		Filename:       d.Filename,
		Caption:        d.Caption,
		CreatedAt:      d.CreatedAt,
		LastAccessedAt: d.LastAccessedAt,
	}
}

// topView adds the request count for analytics rankings.
type topView struct {
	mediaView
	DownloadCount int64 `json:"download_count"`
}

// dailyView is one day/type bucket in the analytics response.
type dailyView struct {
	Day   time.Time `json:"day"`
	Type  string    `json:"type"`
	Count int64     `json:"count"`
}
