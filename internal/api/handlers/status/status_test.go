package status

import (
	"Gramcache/internal/core/downloads"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type stubStore struct {
	available bool
}

func (s *stubStore) Available() bool { return s.available }

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

func TestHealthHandler_StoreAvailable(t *testing.T) {
	handler := NewHealthHandler(&stubStore{available: true}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.HandleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"db":"available"`)
	assert.Contains(t, w.Body.String(), `"timestamp"`)
}

func TestHealthHandler_StoreUnavailable(t *testing.T) {
	handler := NewHealthHandler(&stubStore{available: false}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.HandleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "liveness is independent of the store")
	assert.Contains(t, w.Body.String(), `"db":"unavailable"`)
}

func TestRootHandler_WithStats(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewRootHandler(mockService, &stubStore{available: true}, "gramcache", zerolog.Nop())

	mockService.On("Stats", mock.Anything).Return(&downloads.Stats{Total: 10, Videos: 6, Images: 4}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.HandleRoot(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"online"`)
	assert.Contains(t, w.Body.String(), `"service":"gramcache"`)
	assert.Contains(t, w.Body.String(), `"total":10`)
	assert.Contains(t, w.Body.String(), `"videos":6`)
}

func TestRootHandler_DegradedOmitsStats(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewRootHandler(mockService, &stubStore{available: false}, "gramcache", zerolog.Nop())

	mockService.On("Stats", mock.Anything).Return(nil, downloads.ErrStoreUnavailable)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.HandleRoot(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "degradation never turns the banner into an error")
	assert.Contains(t, w.Body.String(), `"status":"online"`)
	assert.Contains(t, w.Body.String(), `"db":"unavailable"`)
	assert.NotContains(t, w.Body.String(), `"downloads"`)
}

func TestRootHandler_StatsErrorStillAnswers(t *testing.T) {
	mockService := new(MockDownloadService)
	handler := NewRootHandler(mockService, &stubStore{available: true}, "gramcache", zerolog.Nop())

	mockService.On("Stats", mock.Anything).Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.HandleRoot(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"online"`)
	assert.NotContains(t, w.Body.String(), `"downloads"`)
}
