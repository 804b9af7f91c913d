package api

import (
	"log/slog"
	"net/http"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// AdminHandler serves account administration. All routes require the admin
// role; the router enforces that.
type AdminHandler struct {
	users  models.UserRepository
	logger *slog.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(users models.UserRepository, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{users: users, logger: logger}
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

type updateRoleRequest struct {
	Role models.Role `json:"role"`
}

// UpdateRole handles PUT /api/admin/users/{id}/role.
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r, "/api/admin/users/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "user id required")
		return
	}

	var req updateRoleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "role must be 'user', 'moderator' or 'admin'")
		return
	}

	if err := h.users.UpdateRole(r.Context(), id, req.Role); err != nil {
		h.logger.Warn("failed to update role", "user_id", id, "error", err)
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	h.logger.Info("user role updated", "user_id", id, "role", req.Role)
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "role": string(req.Role)})
}
