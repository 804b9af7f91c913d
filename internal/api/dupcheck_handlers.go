package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/dupcheck"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// User-facing messages for classifier failures. Responses always carry an
// empty duplicates array alongside the error so clients can render both
// fields unconditionally.
const (
	msgRateLimited   = "Rate limit exceeded. Please wait a moment and try again."
	msgQuotaExceeded = "AI quota exceeded. Please try again later."
	msgCheckFailed   = "Failed to check for duplicates."
)

// DupcheckHandler serves the duplicate-check endpoint.
type DupcheckHandler struct {
	service *dupcheck.Service
	logger  *slog.Logger
}

// NewDupcheckHandler creates a duplicate-check handler.
func NewDupcheckHandler(service *dupcheck.Service, logger *slog.Logger) *DupcheckHandler {
	return &DupcheckHandler{service: service, logger: logger}
}

type checkDuplicatesResponse struct {
	Duplicates []models.Match `json:"duplicates"`
	Error      string         `json:"error,omitempty"`
}

// CheckDuplicates handles POST /api/check-duplicates.
func (h *DupcheckHandler) CheckDuplicates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var draft models.SubmissionDraft
	if err := decodeBody(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !draft.Kind.Valid() {
		writeError(w, http.StatusBadRequest, "type must be 'event' or 'promo'")
		return
	}

	matches, err := h.service.Check(r.Context(), draft)
	if err != nil {
		status, message := classifyCheckError(err)
		h.logger.Warn("duplicate check failed",
			"kind", draft.Kind,
			"status", status,
			"error", err)
		writeJSON(w, status, checkDuplicatesResponse{
			Duplicates: []models.Match{},
			Error:      message,
		})
		return
	}

	writeJSON(w, http.StatusOK, checkDuplicatesResponse{Duplicates: matches})
}

func classifyCheckError(err error) (int, string) {
	switch {
	case errors.Is(err, dupcheck.ErrRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	case errors.Is(err, dupcheck.ErrQuotaExceeded):
		return http.StatusPaymentRequired, msgQuotaExceeded
	default:
		return http.StatusInternalServerError, msgCheckFailed
	}
}
