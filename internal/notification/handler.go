package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/checkin/internal/group"
	"github.com/fkhayef/checkin/internal/localtime"
	"github.com/fkhayef/checkin/internal/notification/dedup"
	"github.com/fkhayef/checkin/pkg/middleware"
	"github.com/fkhayef/checkin/pkg/response"
	"github.com/fkhayef/checkin/pkg/validation"
)

// NewAnswerRequest triggers a new-answer notification
type NewAnswerRequest struct {
	GroupID uuid.UUID `json:"group_id" validate:"required"`
}

// NewMessageRequest triggers a new-message notification
type NewMessageRequest struct {
	GroupID uuid.UUID `json:"group_id" validate:"required"`
}

// NewCheckInRequest triggers a check-in notification across the groups it was shared to
type NewCheckInRequest struct {
	GroupIDs []uuid.UUID `json:"group_ids" validate:"required,min=1,max=20,dive,required"`
	Mood     string      `json:"mood" validate:"max=40"`
}

// DailyQuestionResponse is today's question for a group
type DailyQuestionResponse struct {
	GroupID  uuid.UUID `json:"group_id"`
	Date     string    `json:"date"`
	Question string    `json:"question"`
}

// MembershipChecker guards group-scoped reads
type MembershipChecker interface {
	RequireMember(ctx context.Context, groupID, userID uuid.UUID) error
}

// Handler handles HTTP requests for notification triggers and daily jobs
type Handler struct {
	service   *Service
	members   MembershipChecker
	validator *validation.Validator
	now       func() time.Time
}

// NewHandler creates a new notification handler
func NewHandler(service *Service, members MembershipChecker, validator *validation.Validator) *Handler {
	return &Handler{service: service, members: members, validator: validator, now: time.Now}
}

// Routes returns the router for user-triggered notification endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/new-answer", h.NewAnswer)
	r.Post("/new-message", h.NewMessage)
	r.Post("/new-checkin", h.NewCheckIn)

	return r
}

// JobRoutes returns the router for scheduled jobs. Callers guard it with the cron secret.
func (h *Handler) JobRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/daily-question", h.DailyQuestion)
	r.Post("/daily-question", h.DailyQuestion)
	r.Get("/daily-reminder", h.DailyReminder)
	r.Post("/daily-reminder", h.DailyReminder)

	return r
}

// RegisterGroupRoutes adds group-scoped notification reads to a /groups router
func (h *Handler) RegisterGroupRoutes(r chi.Router) {
	r.Get("/{id}/daily-question", h.TodayQuestion)
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrSMSNotConfigured) {
		response.ConfigError(w, err.Error())
		return
	}
	group.WriteError(w, err, fallback)
}

// NewAnswer handles POST /notify/new-answer
// @Summary      Notify a group about a new answer
// @Description  Texts every eligible member of the group except the caller
// @Tags         notify
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body NewAnswerRequest true "Target group"
// @Success      200 {object} response.APIResponse{data=Summary}
// @Failure      403 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /notify/new-answer [post]
func (h *Handler) NewAnswer(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req NewAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !h.validator.Check(w, &req) {
		return
	}

	summary, err := h.service.NotifyNewAnswer(r.Context(), actor, req.GroupID)
	if err != nil {
		writeError(w, err, "Failed to send notifications")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

// NewMessage handles POST /notify/new-message
// @Summary      Notify a group about a new message
// @Tags         notify
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body NewMessageRequest true "Target group"
// @Success      200 {object} response.APIResponse{data=Summary}
// @Failure      403 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /notify/new-message [post]
func (h *Handler) NewMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req NewMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !h.validator.Check(w, &req) {
		return
	}

	summary, err := h.service.NotifyNewMessage(r.Context(), actor, req.GroupID)
	if err != nil {
		writeError(w, err, "Failed to send notifications")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

// NewCheckIn handles POST /notify/new-checkin
// @Summary      Notify every group a check-in was shared to
// @Description  A member is skipped only if message SMS is off in every group they share with the check-in
// @Tags         notify
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body NewCheckInRequest true "Groups and mood"
// @Success      200 {object} response.APIResponse{data=Summary}
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /notify/new-checkin [post]
func (h *Handler) NewCheckIn(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req NewCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !h.validator.Check(w, &req) {
		return
	}

	summary, err := h.service.NotifyNewCheckIn(r.Context(), actor, req.GroupIDs, req.Mood)
	if err != nil {
		writeError(w, err, "Failed to send notifications")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

// DailyQuestion handles GET|POST /jobs/daily-question
// @Summary      Run the daily question job
// @Description  Generates and texts today's question to each group that has not had one
// @Tags         jobs
// @Produce      json
// @Security     CronSecret
// @Param        date query string false "Past local date to backfill (YYYY-MM-DD)"
// @Success      200 {object} response.APIResponse{data=JobSummary}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /jobs/daily-question [get]
// @Router       /jobs/daily-question [post]
func (h *Handler) DailyQuestion(w http.ResponseWriter, r *http.Request) {
	at, ok := h.jobTime(w, r)
	if !ok {
		return
	}

	summary, err := h.service.RunDailyQuestions(r.Context(), at)
	if err != nil {
		writeError(w, err, "Daily question job failed")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

// jobTime is now, or the start of the local day named by ?date= when it is not in the future
func (h *Handler) jobTime(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	now := h.now()
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return now, true
	}

	d, err := localtime.ParseDate(raw)
	if err != nil {
		response.BadRequest(w, err.Error())
		return time.Time{}, false
	}
	start := localtime.MidnightUTC(d, h.service.Guard.Location())
	if start.After(now) {
		response.BadRequest(w, "date must not be in the future")
		return time.Time{}, false
	}
	return start, true
}

// DailyReminder handles GET|POST /jobs/daily-reminder
// @Summary      Run the daily reminder job
// @Description  Texts a reminder once per user per day, only inside the reminder window
// @Tags         jobs
// @Produce      json
// @Security     CronSecret
// @Success      200 {object} response.APIResponse{data=JobSummary}
// @Failure      401 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /jobs/daily-reminder [get]
// @Router       /jobs/daily-reminder [post]
func (h *Handler) DailyReminder(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.RunDailyReminders(r.Context(), h.now())
	if err != nil {
		writeError(w, err, "Daily reminder job failed")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

// TodayQuestion handles GET /groups/{id}/daily-question
// @Summary      Get today's question for a group
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=DailyQuestionResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /groups/{id}/daily-question [get]
func (h *Handler) TodayQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	groupID, ok := group.ParseGroupID(w, r)
	if !ok {
		return
	}

	if err := h.members.RequireMember(r.Context(), groupID, userID); err != nil {
		group.WriteError(w, err, "Failed to get daily question")
		return
	}

	now := h.now()
	artifact, err := h.service.TodayQuestion(r.Context(), groupID, now)
	if err != nil {
		if errors.Is(err, dedup.ErrArtifactNotFound) {
			response.NotFound(w, "No question yet today")
			return
		}
		response.InternalError(w, "Failed to get daily question")
		return
	}

	response.JSON(w, http.StatusOK, &DailyQuestionResponse{
		GroupID:  groupID,
		Date:     h.service.Guard.DateOf(now).String(),
		Question: artifact.Content,
	})
}
