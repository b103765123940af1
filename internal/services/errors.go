package services

import (
	"errors"

	apperrors "github.com/gatherline/rsvp-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Event specific errors
	ErrEventNotFound      = errors.New("event not found")
	ErrAccessCodeRequired = errors.New("event requires an access code")
	ErrAccessCodeInvalid  = errors.New("invalid access code")

	// Survey specific errors
	ErrSurveyNotFound   = errors.New("survey not found")
	ErrQuestionNotFound = errors.New("question not found")

	// Submission specific errors
	ErrSubmissionNotFound    = errors.New("submission not found")
	ErrEditTokenInvalid      = errors.New("invalid or expired edit token")
	ErrIdentityRequired      = errors.New("name is required")
	ErrAttendeeCountRequired = errors.New("attendee count must be at least 1 when attending")

	// Auth specific errors
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTooManyAttempts    = errors.New("too many login attempts, try again later")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors
