package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/embed"
)

// EmbedHandler proxies link-preview fetches for listing pages.
type EmbedHandler struct {
	fetcher *embed.Fetcher
	logger  *slog.Logger
}

// NewEmbedHandler creates an embed handler.
func NewEmbedHandler(fetcher *embed.Fetcher, logger *slog.Logger) *EmbedHandler {
	return &EmbedHandler{fetcher: fetcher, logger: logger}
}

// Preview handles GET /api/embed?url=.
func (h *EmbedHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "url parameter required")
		return
	}

	preview, err := h.fetcher.Fetch(r.Context(), target)
	if err != nil {
		switch {
		case errors.Is(err, embed.ErrHostNotAllowed):
			writeError(w, http.StatusBadRequest, "host not allowed")
		case errors.Is(err, embed.ErrInvalidURL):
			writeError(w, http.StatusBadRequest, "url must be a valid https address")
		default:
			h.logger.Warn("embed fetch failed", "url", target, "error", err)
			writeError(w, http.StatusBadGateway, "failed to fetch embed target")
		}
		return
	}

	writeJSON(w, http.StatusOK, preview)
}
