package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gramcache/internal/core/downloads"
)

func TestParseMedia_FirstVideoTagWins(t *testing.T) {
	body := []byte(`<html><head>
<meta property="og:video" content="https://cdn.example/first.mp4" />
<meta property="og:video" content="https://cdn.example/second.mp4" />
</head></html>`)

	media, err := parseMedia(body)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/first.mp4", media.url)
	assert.Equal(t, downloads.MediaTypeVideo, media.mediaType)
}

func TestParseMedia_OgVariants(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantURL  string
		wantType string
	}{
		{
			name:     "og:video:url",
			body:     `<meta property="og:video:url" content="https://cdn.example/v.mp4" />`,
			wantURL:  "https://cdn.example/v.mp4",
			wantType: downloads.MediaTypeVideo,
		},
		{
			name:     "og:video:secure_url",
			body:     `<meta property="og:video:secure_url" content="https://cdn.example/s.mp4" />`,
			wantURL:  "https://cdn.example/s.mp4",
			wantType: downloads.MediaTypeVideo,
		},
		{
			name:     "og:image:url",
			body:     `<meta property="og:image:url" content="https://cdn.example/i.jpg" />`,
			wantURL:  "https://cdn.example/i.jpg",
			wantType: downloads.MediaTypeImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media, err := parseMedia([]byte("<html><head>" + tt.body + "</head></html>"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, media.url)
			assert.Equal(t, tt.wantType, media.mediaType)
		})
	}
}

func TestParseMedia_EmptyContentIgnored(t *testing.T) {
	body := []byte(`<html><head>
<meta property="og:video" content="" />
<meta property="og:image" content="https://cdn.example/p.jpg" />
</head></html>`)

	media, err := parseMedia(body)
	require.NoError(t, err)

	assert.Equal(t, downloads.MediaTypeImage, media.mediaType)
	assert.Equal(t, "https://cdn.example/p.jpg", media.url)
}

func TestParseMedia_NoMedia(t *testing.T) {
	_, err := parseMedia([]byte(`<html><head><title>nothing here</title></head></html>`))
	assert.ErrorIs(t, err, errNoMedia)
}

func TestParseMedia_CaptionFallsBackToDescription(t *testing.T) {
	body := []byte(`<html><head>
<meta property="og:description" content="caught on camera" />
<meta property="og:image" content="https://cdn.example/p.jpg" />
</head></html>`)

	media, err := parseMedia(body)
	require.NoError(t, err)
	assert.Equal(t, "caught on camera", media.caption)
}

func TestParseJSONLD_ArrayOfBlocks(t *testing.T) {
	body := []byte(`<html><head>
<script type="application/ld+json">
[{"@type":"Organization","name":"x"},{"@type":"ImageObject","contentUrl":"https://cdn.example/ld.jpg"}]
</script>
</head></html>`)

	media, err := parseMedia(body)
	require.NoError(t, err)

	assert.Equal(t, downloads.MediaTypeImage, media.mediaType)
	assert.Equal(t, "https://cdn.example/ld.jpg", media.url)
}

func TestParseJSONLD_MalformedBlockSkipped(t *testing.T) {
	body := []byte(`<html><head>
<script type="application/ld+json">{not json at all</script>
<script type="application/ld+json">{"@type":"VideoObject","contentUrl":"https://cdn.example/ok.mp4"}</script>
</head></html>`)

	media, err := parseMedia(body)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/ok.mp4", media.url)
}

func TestParseSharedData_VideoPreferred(t *testing.T) {
	body := []byte(`{"display_url":"https:\/\/cdn.example\/img.jpg","video_url":"https:\/\/cdn.example\/vid.mp4?tag=a\u0026sig=b"}`)

	url, mediaType, ok := parseSharedData(body)
	require.True(t, ok)

	assert.Equal(t, downloads.MediaTypeVideo, mediaType)
	assert.Equal(t, "https://cdn.example/vid.mp4?tag=a&sig=b", url)
}

func TestUnescapeJSONURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"escaped slashes", `https:\/\/cdn.example\/x.mp4`, "https://cdn.example/x.mp4"},
		{"escaped ampersands", `https:\/\/cdn.example\/x.mp4?a=1\u0026b=2`, "https://cdn.example/x.mp4?a=1&b=2"},
		{"plain url untouched", "https://cdn.example/x.mp4?a=1&b=2", "https://cdn.example/x.mp4?a=1&b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unescapeJSONURL(tt.in))
		})
	}
}
