package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/analytics"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/auth"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// PromotionHandler serves promotion listing CRUD.
type PromotionHandler struct {
	promos    models.PromotionRepository
	users     models.UserRepository
	analytics *analytics.Service
	logger    *slog.Logger
}

// NewPromotionHandler creates a promotion handler.
func NewPromotionHandler(promos models.PromotionRepository, users models.UserRepository, analyticsSvc *analytics.Service, logger *slog.Logger) *PromotionHandler {
	return &PromotionHandler{promos: promos, users: users, analytics: analyticsSvc, logger: logger}
}

type listPromotionsResponse struct {
	Promotions []models.Promotion `json:"promotions"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

// List handles GET /api/promotions.
func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	promos, total, err := h.promos.List(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to list promotions", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, listPromotionsResponse{
		Promotions: promos,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
	})
}

type createPromotionRequest struct {
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	Area        string `json:"area,omitempty"`
	Description string `json:"description,omitempty"`
	PromoType   string `json:"promo_type,omitempty"`
}

// Create handles POST /api/promotions (authenticated).
func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createPromotionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	promo := &models.Promotion{
		Title:       req.Title,
		Venue:       req.Venue,
		Area:        req.Area,
		Description: req.Description,
		PromoType:   req.PromoType,
		CreatorID:   userID,
	}
	if err := promo.Validate(); err != nil {
		if !writeValidationError(w, err) {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if creator, err := h.users.GetByID(r.Context(), userID); err == nil && creator != nil {
		promo.CreatorName = creator.DisplayName
	}

	if err := h.promos.Create(r.Context(), promo); err != nil {
		h.logger.Error("failed to create promotion", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.analytics.Invalidate()
	h.logger.Info("promotion created", "promo_id", promo.ID, "creator_id", userID)
	writeJSON(w, http.StatusCreated, promo)
}

// Get handles GET /api/promotions/{idOrSlug}. Reads count as a view.
func (h *PromotionHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := pathSegment(r, "/api/promotions/")
	if key == "" {
		writeError(w, http.StatusBadRequest, "promotion id required")
		return
	}

	promo, err := h.promos.GetByID(r.Context(), key)
	if err == nil && promo == nil {
		promo, err = h.promos.GetBySlug(r.Context(), key)
	}
	if err != nil {
		h.logger.Error("failed to get promotion", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if promo == nil {
		writeError(w, http.StatusNotFound, "promotion not found")
		return
	}

	go func(id string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.promos.IncrementViews(ctx, id); err != nil {
			h.logger.Debug("failed to increment promotion views", "promo_id", id, "error", err)
		}
	}(promo.ID)

	writeJSON(w, http.StatusOK, promo)
}

// Update handles PUT /api/promotions/{id} (creator or moderator).
func (h *PromotionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r, "/api/promotions/")
	promo, err := h.promos.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get promotion", "promo_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if promo == nil {
		writeError(w, http.StatusNotFound, "promotion not found")
		return
	}
	if !canModify(r, promo.CreatorID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req createPromotionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	promo.Title = req.Title
	promo.Venue = req.Venue
	promo.Area = req.Area
	promo.Description = req.Description
	promo.PromoType = req.PromoType
	if err := promo.Validate(); err != nil {
		if !writeValidationError(w, err) {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if err := h.promos.Update(r.Context(), promo); err != nil {
		h.logger.Error("failed to update promotion", "promo_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.analytics.Invalidate()
	writeJSON(w, http.StatusOK, promo)
}

// Delete handles DELETE /api/promotions/{id} (creator, moderator or admin).
// Soft-deletes to the removed status, mirroring event removal.
func (h *PromotionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r, "/api/promotions/")
	promo, err := h.promos.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get promotion", "promo_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if promo == nil {
		writeError(w, http.StatusNotFound, "promotion not found")
		return
	}
	if !canModify(r, promo.CreatorID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.promos.SetStatus(r.Context(), id, models.ListingStatusRemoved); err != nil {
		h.logger.Error("failed to remove promotion", "promo_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.analytics.Invalidate()
	h.logger.Info("promotion removed", "promo_id", id)
	writeNoContent(w)
}

// SetStatus handles PUT /api/promotions/{id}/status (moderator and above).
func (h *PromotionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r, "/api/promotions/")

	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch req.Status {
	case models.ListingStatusActive, models.ListingStatusExpired, models.ListingStatusRemoved:
	default:
		writeError(w, http.StatusBadRequest, "status must be 'active', 'expired' or 'removed'")
		return
	}

	if err := h.promos.SetStatus(r.Context(), id, req.Status); err != nil {
		h.logger.Error("failed to set promotion status", "promo_id", id, "error", err)
		writeError(w, http.StatusNotFound, "promotion not found")
		return
	}

	h.analytics.Invalidate()
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}
