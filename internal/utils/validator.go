package utils

import (
	"reflect"
	"strings"

	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Custom validation functions

func ValidateQuestionType(fl validator.FieldLevel) bool {
	return models.QuestionType(fl.Field().String()).Valid()
}

func ValidateRSVPResponse(fl validator.FieldLevel) bool {
	return models.RSVPResponse(fl.Field().String()).Valid()
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", ValidateQuestionType)
	validate.RegisterValidation("rsvp_response", ValidateRSVPResponse)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// NewValidator returns a validator with all custom rules registered.
func NewValidator() *validator.Validate {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return validate
}
