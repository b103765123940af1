package handlers

import (
	"net/http"

	"github.com/gatherline/rsvp-service/internal/repositories"
	"github.com/gatherline/rsvp-service/internal/services"
	"github.com/gatherline/rsvp-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// EventHandler serves the public invitation endpoints and the admin event CRUD.
type EventHandler struct {
	BaseHandler
	eventService      services.EventService
	submissionService services.SubmissionService
}

func NewEventHandler(
	eventService services.EventService,
	submissionService services.SubmissionService,
	logger utils.Logger,
) *EventHandler {
	return &EventHandler{
		BaseHandler:       NewBaseHandler(logger),
		eventService:      eventService,
		submissionService: submissionService,
	}
}

// ===== PUBLIC ENDPOINTS =====

// GetEvent returns the invitation view for a public invitation token.
func (h *EventHandler) GetEvent(c *gin.Context) {
	token := ParseTokenParam(c, "token")
	if token == "" {
		return
	}

	event, err := h.eventService.GetByInvitationToken(c.Request.Context(), token, accessCode(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

type verifyAccessCodeRequest struct {
	AccessCode string `json:"access_code" binding:"required"`
}

// VerifyAccessCode checks an access code without returning event details.
func (h *EventHandler) VerifyAccessCode(c *gin.Context) {
	token := ParseTokenParam(c, "token")
	if token == "" {
		return
	}

	var req verifyAccessCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.eventService.VerifyAccessCode(c.Request.Context(), token, req.AccessCode); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Access code accepted"})
}

// GetStats returns the public attendance summary.
func (h *EventHandler) GetStats(c *gin.Context) {
	token := ParseTokenParam(c, "token")
	if token == "" {
		return
	}

	stats, err := h.eventService.GetRSVPStats(c.Request.Context(), token, accessCode(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SubmitRSVP records a new RSVP with survey answers.
func (h *EventHandler) SubmitRSVP(c *gin.Context) {
	token := ParseTokenParam(c, "token")
	if token == "" {
		return
	}

	var req services.SubmitRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.submissionService.SubmitRSVP(c.Request.Context(), token, accessCode(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "RSVP submitted", "submission_id", result.SubmissionID)
	c.JSON(http.StatusCreated, result)
}

// UpdateRSVP replaces an existing RSVP located by its edit token.
func (h *EventHandler) UpdateRSVP(c *gin.Context) {
	token := ParseTokenParam(c, "token")
	if token == "" {
		return
	}

	var req services.SubmitRSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.submissionService.UpdateRSVP(c.Request.Context(), token, editToken(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMyRSVP returns the caller's own submission for prefilling the edit form.
func (h *EventHandler) GetMyRSVP(c *gin.Context) {
	token := ParseTokenParam(c, "token")
	if token == "" {
		return
	}

	submission, err := h.submissionService.GetMyRSVP(c.Request.Context(), token, editToken(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ===== ADMIN ENDPOINTS =====

// CreateEvent creates an event with its owned survey.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	adminID, ok := AdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), &req, adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEventByID returns an event for the admin dashboard.
func (h *EventHandler) GetEventByID(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// ListEvents returns events with pagination.
func (h *EventHandler) ListEvents(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	size := parseIntQuery(c, "size", 20)

	filters := repositories.EventFilters{
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	events, total, err := h.eventService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"page":   page,
		"size":   size,
	})
}

// UpdateEvent applies a partial update to an event.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event and its owned survey.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id := ParseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Event deleted"})
}
