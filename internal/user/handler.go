package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/checkin/pkg/middleware"
	"github.com/fkhayef/checkin/pkg/response"
	"github.com/fkhayef/checkin/pkg/validation"
)

// Handler handles HTTP requests for profile operations
type Handler struct {
	service   *Service
	validator *validation.Validator
}

// NewHandler creates a new user handler with service dependency injected
func NewHandler(service *Service, validator *validation.Validator) *Handler {
	return &Handler{service: service, validator: validator}
}

// Routes returns the router for user endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Put("/me/mute", h.SetMuted)
	r.Delete("/me", h.DeleteMe)

	return r
}

// GetMe handles GET /users/me
// @Summary      Get my profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	p, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get profile")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// UpdateMe handles PUT /users/me
// @Summary      Create or update my profile
// @Description  Set display name and the phone number SMS notifications go to
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /users/me [put]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !h.validator.Check(w, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), userID, &req)
	if err != nil {
		response.InternalError(w, "Failed to update profile")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// SetMuted handles PUT /users/me/mute
// @Summary      Mute or unmute all SMS notifications
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SetMutedRequest true "Mute flag"
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /users/me/mute [put]
func (h *Handler) SetMuted(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req SetMutedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !h.validator.Check(w, &req) {
		return
	}

	p, err := h.service.SetMuted(r.Context(), userID, *req.Muted)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update mute setting")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// DeleteMe handles DELETE /users/me
// @Summary      Delete my account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse
// @Router       /users/me [delete]
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		response.InternalError(w, "Failed to delete account")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}
