package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/studio-settings/internal/cache"
	"github.com/eugenenazirov/studio-settings/internal/features"
	"github.com/eugenenazirov/studio-settings/internal/settings"
)

type controllableClock struct {
	mu  sync.RWMutex
	now time.Time
}

func newControllableClock(initial time.Time) *controllableClock {
	return &controllableClock{now: initial}
}

func (c *controllableClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *controllableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testDocument() *settings.Document {
	return &settings.Document{
		Caches: map[string]settings.Cache{
			"default": {
				Backend:   "django.core.cache.backends.locmem.LocMemCache",
				KeyPrefix: "sandbox_default",
				Locations: []string{"default"},
			},
		},
		CertQueue:          "certificates",
		CommentsServiceKey: "password",
		ContactEmail:       "info@example.com",
		DefaultFromEmail:   "registration@example.com",
		SegmentIOKey:       "segment-write-key",
		ServerEmail:        "devops@example.com",
		StaticRootBase:     settings.Sentinel,
		TimeZone:           "America/New_York",
		Features: map[string]any{
			"CERTIFICATES_ENABLED": true,
		},
	}
}

func setupTestRouter(t *testing.T, doc *settings.Document, opts ...RouterOption) (http.Handler, *controllableClock) {
	t.Helper()

	registry, err := cache.NewRegistry(doc.Caches)
	if err != nil {
		t.Fatalf("build cache registry: %v", err)
	}
	view := features.NewView(doc.Features)
	clock := newControllableClock(time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC))

	handler := NewHandler(doc, view, registry, WithClock(clock.Now))
	logger := zaptest.NewLogger(t)
	router := NewRouter(handler, logger, append([]RouterOption{WithLogging(false)}, opts...)...)

	return router, clock
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	resp := httptest.NewRecorder()
	writeInternalError(resp, assertError("boom"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got %d", resp.Code)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

func TestHealthEndpoint(t *testing.T) {
	router, clock := setupTestRouter(t, testDocument())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}
	if !resp.Timestamp.Equal(clock.Now()) {
		t.Fatalf("expected timestamp %v, got %v", clock.Now(), resp.Timestamp)
	}
}

func TestGetSettingsRedactsSecrets(t *testing.T) {
	router, _ := setupTestRouter(t, testDocument())

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp settingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Settings.SegmentIOKey != redactedValue {
		t.Fatalf("expected segment key to be redacted, got %q", resp.Settings.SegmentIOKey)
	}
	if resp.Settings.CommentsServiceKey != redactedValue {
		t.Fatalf("expected comments key to be redacted, got %q", resp.Settings.CommentsServiceKey)
	}
	// unresolved placeholders must stay visible
	if resp.Settings.StaticRootBase != settings.Sentinel {
		t.Fatalf("expected placeholder to stay visible, got %q", resp.Settings.StaticRootBase)
	}
	if resp.Settings.CertQueue != "certificates" {
		t.Fatalf("unexpected cert queue: %q", resp.Settings.CertQueue)
	}
}

func TestGetSettingsDoesNotMutateSnapshot(t *testing.T) {
	doc := testDocument()
	router, _ := setupTestRouter(t, doc)

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if doc.SegmentIOKey != "segment-write-key" {
		t.Fatalf("expected snapshot to be untouched, got %q", doc.SegmentIOKey)
	}
}

func TestGetFindings(t *testing.T) {
	doc := testDocument()
	router, _ := setupTestRouter(t, doc)

	req := httptest.NewRequest(http.MethodGet, "/api/settings/findings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp findingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DeploymentReady {
		t.Fatalf("expected document with placeholder to not be deployment-ready")
	}
	found := false
	for _, f := range resp.Findings {
		if f.Key == "STATIC_ROOT_BASE" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected finding for STATIC_ROOT_BASE, got %v", resp.Findings)
	}
}

func TestGetFeaturesAppliesDefaults(t *testing.T) {
	router, _ := setupTestRouter(t, testDocument())

	req := httptest.NewRequest(http.MethodGet, "/api/features", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp featuresResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if enabled, _ := resp.Flags["CERTIFICATES_ENABLED"].(bool); !enabled {
		t.Fatalf("expected document flag in response, got %v", resp.Flags)
	}
	if enabled, _ := resp.Flags["ENABLE_DISCUSSION_SERVICE"].(bool); !enabled {
		t.Fatalf("expected defaulted flag in response, got %v", resp.Flags)
	}
}

func TestGetCaches(t *testing.T) {
	router, _ := setupTestRouter(t, testDocument())

	req := httptest.NewRequest(http.MethodGet, "/api/caches", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp cachesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Caches) != 1 {
		t.Fatalf("expected one cache status, got %v", resp.Caches)
	}
	status := resp.Caches[0]
	if status.Name != "default" || status.Backend != string(cache.KindLocalMemory) {
		t.Fatalf("unexpected cache status: %+v", status)
	}
	if !status.Reachable {
		t.Fatalf("expected local-memory cache to be reachable")
	}
}

func TestQueueCertificate(t *testing.T) {
	router, clock := setupTestRouter(t, testDocument())

	body, _ := json.Marshal(certificateRequest{CourseID: "course-v1:edX+Demo+2024", Username: "staff"})
	req := httptest.NewRequest(http.MethodPost, "/api/certificates", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}

	var resp certificateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Queue != "certificates" || resp.Status != "queued" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.QueuedAt.Equal(clock.Now()) {
		t.Fatalf("expected queuedAt %v, got %v", clock.Now(), resp.QueuedAt)
	}
}

func TestQueueCertificateValidation(t *testing.T) {
	router, _ := setupTestRouter(t, testDocument())

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/certificates", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing course", func(t *testing.T) {
		body, _ := json.Marshal(certificateRequest{Username: "staff"})
		req := httptest.NewRequest(http.MethodPost, "/api/certificates", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCertificatesRouteGatedByFlag(t *testing.T) {
	doc := testDocument()
	doc.Features["CERTIFICATES_ENABLED"] = false
	router, _ := setupTestRouter(t, doc)

	body, _ := json.Marshal(certificateRequest{CourseID: "course-v1:edX+Demo+2024", Username: "staff"})
	req := httptest.NewRequest(http.MethodPost, "/api/certificates", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when certificates are disabled, got %d", rec.Code)
	}
}
