package api

import (
	"log/slog"
	"net/http"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/analytics"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/auth"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// ReviewHandler serves review creation, listing and removal.
type ReviewHandler struct {
	reviews   models.ReviewRepository
	users     models.UserRepository
	analytics *analytics.Service
	logger    *slog.Logger
}

// NewReviewHandler creates a review handler.
func NewReviewHandler(reviews models.ReviewRepository, users models.UserRepository, analyticsSvc *analytics.Service, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, users: users, analytics: analyticsSvc, logger: logger}
}

type createReviewRequest struct {
	Kind      models.SubjectKind `json:"kind"`
	SubjectID string             `json:"subject_id"`
	Rating    int                `json:"rating"`
	Body      string             `json:"body,omitempty"`
}

// Create handles POST /api/reviews (authenticated).
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review := &models.Review{
		Kind:      req.Kind,
		SubjectID: req.SubjectID,
		AuthorID:  userID,
		Rating:    req.Rating,
		Body:      req.Body,
	}
	if err := review.Validate(); err != nil {
		if !writeValidationError(w, err) {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if author, err := h.users.GetByID(r.Context(), userID); err == nil && author != nil {
		review.AuthorName = author.DisplayName
	}

	if err := h.reviews.Create(r.Context(), review); err != nil {
		h.logger.Error("failed to create review", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.analytics.Invalidate()
	writeJSON(w, http.StatusCreated, review)
}

// List handles GET /api/reviews?kind=&subject_id=.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := models.SubjectKind(r.URL.Query().Get("kind"))
	subjectID := r.URL.Query().Get("subject_id")
	if !kind.Valid() || subjectID == "" {
		writeError(w, http.StatusBadRequest, "kind and subject_id are required")
		return
	}

	reviews, err := h.reviews.ListBySubject(r.Context(), kind, subjectID)
	if err != nil {
		h.logger.Error("failed to list reviews", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// Delete handles DELETE /api/reviews/{id} (moderator and above).
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r, "/api/reviews/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "review id required")
		return
	}

	if err := h.reviews.Delete(r.Context(), id); err != nil {
		h.logger.Warn("failed to delete review", "review_id", id, "error", err)
		writeError(w, http.StatusNotFound, "review not found")
		return
	}

	h.analytics.Invalidate()
	writeNoContent(w)
}
