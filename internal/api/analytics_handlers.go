package api

import (
	"log/slog"
	"net/http"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/analytics"
)

// AnalyticsHandler serves the public analytics summary.
type AnalyticsHandler struct {
	service *analytics.Service
	logger  *slog.Logger
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(service *analytics.Service, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, logger: logger}
}

// Summary handles GET /api/analytics/summary.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to compute analytics summary", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
