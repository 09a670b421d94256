package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/checkin/internal/group"
	"github.com/fkhayef/checkin/pkg/middleware"
	"github.com/fkhayef/checkin/pkg/response"
	"github.com/fkhayef/checkin/pkg/validation"
)

// Handler handles HTTP requests for per-group notification settings
type Handler struct {
	service   *Service
	validator *validation.Validator
}

// NewHandler creates a new settings handler
func NewHandler(service *Service, validator *validation.Validator) *Handler {
	return &Handler{service: service, validator: validator}
}

// Register adds the settings endpoints to a /groups router
func (h *Handler) Register(r chi.Router) {
	r.Get("/{id}/notification-settings", h.Get)
	r.Put("/{id}/notification-settings", h.Update)
}

// Get handles GET /groups/{id}/notification-settings
// @Summary      Get my notification settings for a group
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=NotificationSetting}
// @Failure      403 {object} response.APIResponse
// @Router       /groups/{id}/notification-settings [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}

	setting, err := h.service.Get(r.Context(), userID, groupID)
	if err != nil {
		group.WriteError(w, err, "Failed to get notification settings")
		return
	}

	response.JSON(w, http.StatusOK, setting)
}

// Update handles PUT /groups/{id}/notification-settings
// @Summary      Update my notification settings for a group
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Group ID"
// @Param        request body UpdateSettingsRequest true "Flags to change"
// @Success      200 {object} response.APIResponse{data=NotificationSetting}
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /groups/{id}/notification-settings [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !h.validator.Check(w, &req) {
		return
	}

	setting, err := h.service.Update(r.Context(), userID, groupID, &req)
	if err != nil {
		group.WriteError(w, err, "Failed to update notification settings")
		return
	}

	response.JSON(w, http.StatusOK, setting)
}
