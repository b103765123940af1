package handlers

import (
	"errors"
	"net/http"

	"github.com/gatherline/rsvp-service/internal/answers"
	"github.com/gatherline/rsvp-service/internal/services"
	"github.com/gatherline/rsvp-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
	}
	fields = append(fields, additionalFields...)

	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}

// handleServiceError maps service errors onto HTTP responses. Unknown errors
// become a 500 without leaking internals.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var answerErr *answers.Error
	if errors.As(err, &answerErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: answerErr.Error(),
			Code:    string(answerErr.Kind),
			Details: map[string]interface{}{
				"question_id": answerErr.QuestionID,
			},
		})
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Event not found"})
	case errors.Is(err, services.ErrSurveyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Survey not found"})
	case errors.Is(err, services.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Question not found"})
	case errors.Is(err, services.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Submission not found"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Not found"})
	case errors.Is(err, services.ErrAccessCodeRequired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "This event requires an access code",
			Code:    "access_code_required",
		})
	case errors.Is(err, services.ErrAccessCodeInvalid):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Invalid access code",
			Code:    "access_code_invalid",
		})
	case errors.Is(err, services.ErrEditTokenInvalid):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Invalid or missing edit token",
			Code:    "edit_token_invalid",
		})
	case errors.Is(err, services.ErrIdentityRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Name is required"})
	case errors.Is(err, services.ErrAttendeeCountRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Attendee count must be at least 1"})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid username or password"})
	case errors.Is(err, services.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Account is disabled"})
	case errors.Is(err, services.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Message: "Too many login attempts, try again later"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
