package integration

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"Gramcache/internal/api/routes"
	"Gramcache/internal/core/downloads"
	"Gramcache/internal/core/preferences"
	"Gramcache/internal/core/sessions"
	"Gramcache/internal/db/health"
	"Gramcache/internal/db/postgres"
	"Gramcache/internal/instagram"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL and
// brings its schema current. Tests are skipped when the variable is unset
// so the suite stays runnable without Postgres.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration tests")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("Failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "../../internal/db/migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// testApp is the full service stack wired the way cmd/server wires it,
// served from an in-process listener.
type testApp struct {
	Server  *httptest.Server
	Tracker *health.Tracker
}

// newTestApp assembles repositories, services, and routes over a live
// database. The tracker starts available; tests flip it to exercise
// degraded behavior.
func newTestApp(t *testing.T, db *sql.DB) *testApp {
	t.Helper()

	logg := zerolog.Nop()

	tracker := health.NewTracker(logg)
	tracker.MarkAvailable()

	downloadRepo := postgres.NewDownloadRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	preferenceRepo := postgres.NewPreferenceRepository(db)
	auditor := postgres.NewAuditRepository(db)

	extractor := instagram.New(logg, instagram.WithTimeout(5*time.Second))

	downloadService := downloads.NewService(downloadRepo, extractor, tracker, logg, downloads.WithAuditor(auditor))
	sessionService := sessions.NewService(sessionRepo, tracker, logg, sessions.WithAuditor(auditor))
	preferenceService := preferences.NewService(preferenceRepo, tracker, logg, preferences.WithAuditor(auditor))

	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	routes.RegisterDownloadRoutes(r, downloadService, logg)
	routes.RegisterSessionRoutes(r, sessionService, logg)
	routes.RegisterPreferenceRoutes(r, preferenceService, logg)
	routes.RegisterStatusRoutes(r, downloadService, tracker, "gramcache-test", logg)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testApp{Server: server, Tracker: tracker}
}

// newFakeOrigin serves minimal post pages so resolves never leave
// localhost. The returned counter tracks how many fetches reached it.
func newFakeOrigin(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		switch {
		case strings.Contains(r.URL.Path, "/p/reel"):
			_, _ = w.Write([]byte(`<html><head>
<meta property="og:title" content="sunset reel" />
<meta property="og:video" content="https://cdn.example/reel.mp4" />
<meta property="og:image" content="https://cdn.example/reel-poster.jpg" />
</head></html>`))
		case strings.Contains(r.URL.Path, "/p/photo"):
			_, _ = w.Write([]byte(`<html><head>
<meta property="og:title" content="beach photo" />
<meta property="og:image" content="https://cdn.example/beach.jpg" />
</head></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	return server, &hits
}

// uniquePostURL builds a post URL on the fake origin whose path carries
// the accepted host marker, unique per call so tests never collide.
func uniquePostURL(originURL, kind string) string {
	return fmt.Sprintf("%s/instagram.com/p/%s-%d/", originURL, kind, time.Now().UnixNano())
}

// postJSON sends a JSON body and fails the test on transport errors.
func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

// httpGet fails the test on transport errors.
func httpGet(t *testing.T, url string) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	return resp
}

// decodeJSON reads and closes the response body.
func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return payload
}
