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

// EventHandler serves event listing CRUD.
type EventHandler struct {
	events    models.EventRepository
	users     models.UserRepository
	analytics *analytics.Service
	logger    *slog.Logger
}

// NewEventHandler creates an event handler.
func NewEventHandler(events models.EventRepository, users models.UserRepository, analyticsSvc *analytics.Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, users: users, analytics: analyticsSvc, logger: logger}
}

type listEventsResponse struct {
	Events []models.Event `json:"events"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}

// List handles GET /api/events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	query := parseListQuery(r)

	events, total, err := h.events.List(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, listEventsResponse{
		Events: events,
		Total:  total,
		Page:   query.Page,
		Limit:  query.Limit,
	})
}

type createEventRequest struct {
	Title       string     `json:"title"`
	Venue       string     `json:"venue"`
	Area        string     `json:"area,omitempty"`
	Description string     `json:"description,omitempty"`
	EventType   string     `json:"event_type,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// Create handles POST /api/events (authenticated).
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event := &models.Event{
		Title:       req.Title,
		Venue:       req.Venue,
		Area:        req.Area,
		Description: req.Description,
		EventType:   req.EventType,
		Date:        req.Date,
		CreatorID:   userID,
	}
	if err := event.Validate(); err != nil {
		if !writeValidationError(w, err) {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if creator, err := h.users.GetByID(r.Context(), userID); err == nil && creator != nil {
		event.CreatorName = creator.DisplayName
	}

	if err := h.events.Create(r.Context(), event); err != nil {
		h.logger.Error("failed to create event", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.analytics.Invalidate()
	h.logger.Info("event created", "event_id", event.ID, "creator_id", userID)
	writeJSON(w, http.StatusCreated, event)
}

// Get handles GET /api/events/{idOrSlug}. Reads count as a view.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := pathSegment(r, "/api/events/")
	if key == "" {
		writeError(w, http.StatusBadRequest, "event id required")
		return
	}

	event, err := h.events.GetByID(r.Context(), key)
	if err == nil && event == nil {
		event, err = h.events.GetBySlug(r.Context(), key)
	}
	if err != nil {
		h.logger.Error("failed to get event", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	// View counting is best effort and must not delay the response.
	go func(id string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.events.IncrementViews(ctx, id); err != nil {
			h.logger.Debug("failed to increment event views", "event_id", id, "error", err)
		}
	}(event.ID)

	writeJSON(w, http.StatusOK, event)
}

// Update handles PUT /api/events/{id} (creator or moderator).
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r, "/api/events/")
	event, err := h.events.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get event", "event_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if !canModify(r, event.CreatorID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req createEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event.Title = req.Title
	event.Venue = req.Venue
	event.Area = req.Area
	event.Description = req.Description
	event.EventType = req.EventType
	event.Date = req.Date
	if err := event.Validate(); err != nil {
		if !writeValidationError(w, err) {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if err := h.events.Update(r.Context(), event); err != nil {
		h.logger.Error("failed to update event", "event_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.analytics.Invalidate()
	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /api/events/{id} (creator, moderator or admin).
// Listings are soft-deleted by moving them to the removed status so reviews
// and analytics history survive.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r, "/api/events/")
	event, err := h.events.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get event", "event_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if !canModify(r, event.CreatorID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.events.SetStatus(r.Context(), id, models.ListingStatusRemoved); err != nil {
		h.logger.Error("failed to remove event", "event_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.analytics.Invalidate()
	h.logger.Info("event removed", "event_id", id)
	writeNoContent(w)
}

type statusRequest struct {
	Status models.ListingStatus `json:"status"`
}

// SetStatus handles PUT /api/events/{id}/status (moderator and above).
func (h *EventHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r, "/api/events/")

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

	if err := h.events.SetStatus(r.Context(), id, req.Status); err != nil {
		h.logger.Error("failed to set event status", "event_id", id, "error", err)
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	h.analytics.Invalidate()
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}

// canModify allows the listing's creator, moderators and admins.
func canModify(r *http.Request, creatorID string) bool {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return false
	}
	if userID == creatorID {
		return true
	}
	role, ok := auth.RoleFromContext(r.Context())
	return ok && (role == models.RoleModerator || role == models.RoleAdmin)
}
