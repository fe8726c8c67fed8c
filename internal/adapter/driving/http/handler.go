// Package httphandler implements the JSON ops surface: health and metrics.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jcastellan/workpanel/internal/application"
)

// Handler is the HTTP driving adapter that serves the operational API.
type Handler struct {
	session *application.Session
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(session *application.Session, logger *slog.Logger) *Handler {
	return &Handler{session: session, logger: logger}
}

// RegisterAPIRoutes registers the operational routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("GET /metrics", MetricsHandler())
}

// Health returns a simple health check response. Authenticated reports
// whether a backend session is held; the probe itself never touches the
// backend.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Time:          time.Now().UTC().Format(time.RFC3339),
		Authenticated: h.session != nil && h.session.Current() != nil,
	})
}
