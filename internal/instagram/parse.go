package instagram

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"Gramcache/internal/core/downloads"
)

var errNoMedia = errors.New("no media reference in document")

// postMedia is the raw parse result before filename and caption shaping.
type postMedia struct {
	url       string
	mediaType string
	caption   string
}

// og properties carrying media URLs
var (
	videoProperties = map[string]bool{
		"og:video":            true,
		"og:video:url":        true,
		"og:video:secure_url": true,
	}
	imageProperties = map[string]bool{
		"og:image":     true,
		"og:image:url": true,
	}
)

// Shared-data blobs carry the media URL when og tags are stripped
// (age gates, some login walls).
var (
	videoURLPattern   = regexp.MustCompile(`"video_url"\s*:\s*"([^"]+)"`)
	displayURLPattern = regexp.MustCompile(`"display_url"\s*:\s*"([^"]+)"`)
)

// parseMedia walks the document for media metadata: og meta tags first,
// then JSON-LD blocks, then the embedded shared-data blob. A video
// reference anywhere beats every image reference.
func parseMedia(body []byte) (*postMedia, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	caption := extractCaption(doc)

	if url, mediaType, ok := parseOpenGraph(doc); ok {
		return &postMedia{url: url, mediaType: mediaType, caption: caption}, nil
	}
	if url, mediaType, ok := parseJSONLD(doc); ok {
		return &postMedia{url: url, mediaType: mediaType, caption: caption}, nil
	}
	if url, mediaType, ok := parseSharedData(body); ok {
		return &postMedia{url: url, mediaType: mediaType, caption: caption}, nil
	}

	return nil, errNoMedia
}

// parseOpenGraph scans meta tags in document order. The first video
// property wins outright; the first image property wins only when no
// video property appears anywhere in the document.
func parseOpenGraph(doc *goquery.Document) (string, string, bool) {
	var videoURL, imageURL string

	doc.Find("meta[property]").Each(func(_ int, sel *goquery.Selection) {
		property := sel.AttrOr("property", "")
		content := strings.TrimSpace(sel.AttrOr("content", ""))
		if content == "" {
			return
		}
		switch {
		case videoProperties[property] && videoURL == "":
			videoURL = content
		case imageProperties[property] && imageURL == "":
			imageURL = content
		}
	})

	if videoURL != "" {
		return videoURL, downloads.MediaTypeVideo, true
	}
	if imageURL != "" {
		return imageURL, downloads.MediaTypeImage, true
	}
	return "", "", false
}

// extractCaption prefers og:title, falling back to og:description.
func extractCaption(doc *goquery.Document) string {
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			return trimmed
		}
	}
	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}

// jsonLD is the subset of schema.org markup post pages embed.
type jsonLD struct {
	Type       string `json:"@type"`
	ContentURL string `json:"contentUrl"`
}

func parseJSONLD(doc *goquery.Document) (string, string, bool) {
	var url, mediaType string

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := []byte(sel.Text())

		var blocks []jsonLD
		if err := json.Unmarshal(raw, &blocks); err != nil {
			var single jsonLD
			if err := json.Unmarshal(raw, &single); err != nil {
				// Malformed block; keep scanning the rest.
				return true
			}
			blocks = []jsonLD{single}
		}

		for _, block := range blocks {
			if block.ContentURL == "" {
				continue
			}
			switch {
			case strings.EqualFold(block.Type, "VideoObject"):
				url, mediaType = block.ContentURL, downloads.MediaTypeVideo
				return false
			case strings.EqualFold(block.Type, "ImageObject"):
				url, mediaType = block.ContentURL, downloads.MediaTypeImage
				return false
			}
		}
		return true
	})

	return url, mediaType, url != ""
}

func parseSharedData(body []byte) (string, string, bool) {
	if m := videoURLPattern.FindSubmatch(body); m != nil {
		return unescapeJSONURL(string(m[1])), downloads.MediaTypeVideo, true
	}
	if m := displayURLPattern.FindSubmatch(body); m != nil {
		return unescapeJSONURL(string(m[1])), downloads.MediaTypeImage, true
	}
	return "", "", false
}

// unescapeJSONURL undoes the escaping found inside shared-data blobs.
func unescapeJSONURL(raw string) string {
	raw = strings.ReplaceAll(raw, `\/`, "/")
	raw = strings.ReplaceAll(raw, `\u0026`, "&")
	return raw
}
