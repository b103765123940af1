package validator

import (
	"github.com/gatherline/rsvp-service/internal/utils"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct-tag validation with question authoring validation.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	return &Validator{
		structValidator:   utils.NewValidator(),
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}
