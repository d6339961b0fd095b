package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/eugenenazirov/studio-settings/internal/cache"
	"github.com/eugenenazirov/studio-settings/internal/features"
	"github.com/eugenenazirov/studio-settings/internal/settings"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const redactedValue = "*****"

// Handler exposes the loaded environment document over HTTP. The document
// is an immutable snapshot taken at startup, so handlers only ever read it.
type Handler struct {
	doc      *settings.Document
	features *features.View
	caches   *cache.Registry

	clock    func() time.Time
	loadedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(doc *settings.Document, view *features.View, caches *cache.Registry, opts ...HandlerOption) *Handler {
	h := &Handler{
		doc:      doc,
		features: view,
		caches:   caches,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.loadedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := settingsResponse{
		Settings: h.redactedDocument(),
		LoadedAt: h.loadedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetFindings(w http.ResponseWriter, r *http.Request) {
	_ = r
	findings := h.doc.Validate()
	resp := findingsResponse{
		Findings:        findings,
		DeploymentReady: len(findings) == 0,
		CheckedAt:       h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetFeatures(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := featuresResponse{
		Flags: h.features.Snapshot(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetCaches(w http.ResponseWriter, r *http.Request) {
	_ = r
	statuses := make([]cacheStatus, 0, len(h.caches.Names()))
	for _, name := range h.caches.Names() {
		client, ok := h.caches.Client(name)
		if !ok {
			continue
		}
		statuses = append(statuses, cacheStatus{
			Name:      name,
			Backend:   string(client.Kind()),
			Locations: client.Locations(),
			Reachable: client.Ping() == nil,
		})
	}
	writeJSON(w, http.StatusOK, cachesResponse{Caches: statuses})
}

// handleQueueCertificate is only routed when CERTIFICATES_ENABLED is set;
// with the flag off the path does not exist.
func (h *Handler) handleQueueCertificate(w http.ResponseWriter, r *http.Request) {
	var req certificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if strings.TrimSpace(req.CourseID) == "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "courseId must not be empty")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "username must not be empty")
		return
	}

	queue := h.doc.CertQueue
	if queue == "" {
		writeError(w, http.StatusInternalServerError, "Internal error", "CERT_QUEUE is not configured")
		return
	}

	resp := certificateResponse{
		Status:   "queued",
		Queue:    queue,
		CourseID: req.CourseID,
		Username: req.Username,
		QueuedAt: h.clock(),
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// redactedDocument returns a copy of the snapshot with secret-bearing values
// masked. Unresolved placeholder sentinels stay visible so operators can see
// what still needs an override.
func (h *Handler) redactedDocument() *settings.Document {
	doc := *h.doc
	if doc.SegmentIOKey != "" && doc.SegmentIOKey != settings.Sentinel {
		doc.SegmentIOKey = redactedValue
	}
	if doc.CommentsServiceKey != "" && doc.CommentsServiceKey != settings.Sentinel {
		doc.CommentsServiceKey = redactedValue
	}
	return &doc
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type settingsResponse struct {
	Settings *settings.Document `json:"settings"`
	LoadedAt time.Time          `json:"loadedAt"`
}

type findingsResponse struct {
	Findings        []settings.Finding `json:"findings"`
	DeploymentReady bool               `json:"deploymentReady"`
	CheckedAt       time.Time          `json:"checkedAt"`
}

type featuresResponse struct {
	Flags map[string]any `json:"flags"`
}

type cacheStatus struct {
	Name      string   `json:"name"`
	Backend   string   `json:"backend"`
	Locations []string `json:"locations"`
	Reachable bool     `json:"reachable"`
}

type cachesResponse struct {
	Caches []cacheStatus `json:"caches"`
}

type certificateRequest struct {
	CourseID string `json:"courseId"`
	Username string `json:"username"`
}

type certificateResponse struct {
	Status   string    `json:"status"`
	Queue    string    `json:"queue"`
	CourseID string    `json:"courseId"`
	Username string    `json:"username"`
	QueuedAt time.Time `json:"queuedAt"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
