package download

import (
	"Gramcache/internal/core/downloads"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockDownloadService is a mock implementation of downloads.Service
type MockDownloadService struct {
	mock.Mock
}

func (m *MockDownloadService) Resolve(ctx context.Context, sourceURL string, forceRefresh bool) (*downloads.Result, error) {
	args := m.Called(ctx, sourceURL, forceRefresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*downloads.Result), args.Error(1)
}

func (m *MockDownloadService) History(ctx context.Context, limit int) ([]*downloads.Download, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*downloads.Download), args.Error(1)
}

func (m *MockDownloadService) Analytics(ctx context.Context, period string, limit int) (*downloads.Analytics, error) {
	args := m.Called(ctx, period, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*downloads.Analytics), args.Error(1)
}

func (m *MockDownloadService) Stats(ctx context.Context) (*downloads.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*downloads.Stats), args.Error(1)
}

func (m *MockDownloadService) IsSupported(sourceURL string) bool {
	args := m.Called(sourceURL)
	return args.Bool(0)
}

func sampleResult(cached bool) *downloads.Result {
	return &downloads.Result{
		Cached: cached,
		Download: &downloads.Download{
			ID:             1,
			SourceURL:      "https://instagram.com/p/ABC",
			MediaURL:       "https://cdn.example.com/video.mp4",
			MediaType:      downloads.MediaTypeVideo,
			Filename:       "instagram_1700000000000.mp4",
			Caption:        "a caption",
			Status:         downloads.StatusSuccess,
			DownloadCount:  1,
			CreatedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			LastAccessedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestResolveHandler_GET_Success(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewResolveHandler(mockService, zerolog.Nop())

	mockService.On("Resolve", mock.Anything, "https://instagram.com/p/ABC", false).
		Return(sampleResult(false), nil)

	req := httptest.NewRequest(http.MethodGet, "/igdl?url=https://instagram.com/p/ABC", nil)
	w := httptest.NewRecorder()
	handler.HandleResolve(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"cached":false`)
	assert.Contains(t, w.Body.String(), `"type":"video"`)
	assert.Contains(t, w.Body.String(), `"download_url":"https://cdn.example.com/video.mp4"`)

	mockService.AssertExpectations(t)
}

func TestResolveHandler_GET_CachedFlag(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewResolveHandler(mockService, zerolog.Nop())

	mockService.On("Resolve", mock.Anything, "https://instagram.com/p/ABC", false).
		Return(sampleResult(true), nil)

	req := httptest.NewRequest(http.MethodGet, "/igdl?url=https://instagram.com/p/ABC", nil)
	w := httptest.NewRecorder()
	handler.HandleResolve(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cached":true`)
}

func TestResolveHandler_GET_ForceRefresh(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewResolveHandler(mockService, zerolog.Nop())

	mockService.On("Resolve", mock.Anything, "https://instagram.com/p/ABC", true).
		Return(sampleResult(false), nil)

	req := httptest.NewRequest(http.MethodGet, "/igdl?url=https://instagram.com/p/ABC&force_refresh=true", nil)
	w := httptest.NewRecorder()
	handler.HandleResolve(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestResolveHandler_POST_Body(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewResolveHandler(mockService, zerolog.Nop())

	mockService.On("Resolve", mock.Anything, "https://instagram.com/p/XYZ", true).
		Return(sampleResult(false), nil)

	body := `{"url": "https://instagram.com/p/XYZ", "force_refresh": true}`
	req := httptest.NewRequest(http.MethodPost, "/igdl", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler.HandleResolve(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestResolveHandler_MissingURL(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewResolveHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/igdl", nil)
	w := httptest.NewRecorder()
	handler.HandleResolve(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "url is required")

	mockService.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveHandler_POST_InvalidJSON(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewResolveHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/igdl", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	handler.HandleResolve(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid JSON body")

	mockService.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveHandler_UnsupportedURL(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewResolveHandler(mockService, zerolog.Nop())

	mockService.On("Resolve", mock.Anything, "https://example.com/watch", false).
		Return(nil, downloads.ErrUnsupportedURL)

	req := httptest.NewRequest(http.MethodGet, "/igdl?url=https://example.com/watch", nil)
	w := httptest.NewRecorder()
	handler.HandleResolve(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "not an instagram post")
}

func TestResolveHandler_ExtractionFailure(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewResolveHandler(mockService, zerolog.Nop())

	extractionErr := &downloads.ExtractionFailedError{
		SourceURL: "https://instagram.com/p/GONE",
		Err:       assert.AnError,
	}
	mockService.On("Resolve", mock.Anything, "https://instagram.com/p/GONE", false).
		Return(nil, extractionErr)

	req := httptest.NewRequest(http.MethodGet, "/igdl?url=https://instagram.com/p/GONE", nil)
	w := httptest.NewRecorder()
	handler.HandleResolve(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "extraction failed")
}

func TestResolveHandler_UnexpectedError(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewResolveHandler(mockService, zerolog.Nop())

	mockService.On("Resolve", mock.Anything, "https://instagram.com/p/ABC", false).
		Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/igdl?url=https://instagram.com/p/ABC", nil)
	w := httptest.NewRecorder()
	handler.HandleResolve(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "an unexpected error occurred")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error(), "internal details must not leak")
}

func TestResolveHandler_CaptionOmittedWhenEmpty(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewResolveHandler(mockService, zerolog.Nop())

	result := sampleResult(false)
	result.Download.Caption = ""
	mockService.On("Resolve", mock.Anything, "https://instagram.com/p/ABC", false).
		Return(result, nil)

	req := httptest.NewRequest(http.MethodGet, "/igdl?url=https://instagram.com/p/ABC", nil)
	w := httptest.NewRecorder()
	handler.HandleResolve(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"caption"`)
}
