package validator

import (
	"fmt"
	"strings"

	"github.com/gatherline/rsvp-service/internal/answers"
	"github.com/gatherline/rsvp-service/internal/models"
)

// QuestionValidator handles question authoring validation: the shape of the
// options column must match the question type before a question is saved.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

const (
	maxQuestionTextLength = 2000
	maxChoiceOptions      = 100
)

// ValidateQuestion validates a complete question object
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if strings.TrimSpace(question.Text) == "" {
		return fmt.Errorf("question text is required")
	}
	if len(question.Text) > maxQuestionTextLength {
		return fmt.Errorf("question text must not exceed %d characters", maxQuestionTextLength)
	}
	if !question.Type.Valid() {
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
	if question.AllowOther && !question.Type.AllowsOther() {
		return fmt.Errorf("%s questions do not support an \"other\" option", question.Type)
	}
	return v.ValidateOptions(question)
}

// ValidateOptions validates the options payload against the question type.
func (v *QuestionValidator) ValidateOptions(question *models.Question) error {
	switch question.Type {
	case models.QuestionMultipleChoice, models.QuestionCheckbox:
		return v.validateChoiceOptions(question)
	case models.QuestionMatrix, models.QuestionMatrixSingle:
		return v.validateGridOptions(question)
	case models.QuestionText, models.QuestionYesNo, models.QuestionDateTime:
		if len(question.Options) > 0 && string(question.Options) != "null" {
			return fmt.Errorf("%s questions do not take options", question.Type)
		}
		return nil
	default:
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
}

// ValidateBatch validates multiple questions
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	for i, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}

func (v *QuestionValidator) validateChoiceOptions(question *models.Question) error {
	options, err := answers.DecodeChoiceOptions(*question)
	if err != nil {
		return err
	}

	if len(options) == 0 {
		return fmt.Errorf("must have at least 1 option")
	}
	if len(options) > maxChoiceOptions {
		return fmt.Errorf("cannot have more than %d options", maxChoiceOptions)
	}

	seen := make(map[string]bool, len(options))
	for _, option := range options {
		if strings.TrimSpace(option) == "" {
			return fmt.Errorf("option text cannot be empty")
		}
		if len(option) > answers.MaxGridItemLength {
			return fmt.Errorf("option text must not exceed %d characters", answers.MaxGridItemLength)
		}
		if option == answers.OtherToken {
			return fmt.Errorf("%q is reserved for the free-text option", answers.OtherToken)
		}
		if seen[option] {
			return fmt.Errorf("duplicate option: %s", option)
		}
		seen[option] = true
	}

	return nil
}

func (v *QuestionValidator) validateGridOptions(question *models.Question) error {
	options, err := answers.DecodeGridOptions(*question)
	if err != nil {
		return err
	}

	if len(options.Rows) == 0 {
		return fmt.Errorf("must have at least 1 row")
	}
	if len(options.Columns) == 0 {
		return fmt.Errorf("must have at least 1 column")
	}
	if len(options.Rows) > answers.MaxGridRows {
		return fmt.Errorf("cannot have more than %d rows", answers.MaxGridRows)
	}

	if err := v.validateGridItems("row", options.Rows); err != nil {
		return err
	}
	return v.validateGridItems("column", options.Columns)
}

func (v *QuestionValidator) validateGridItems(kind string, items []string) error {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("%s text cannot be empty", kind)
		}
		if len(item) > answers.MaxGridItemLength {
			return fmt.Errorf("%s text must not exceed %d characters", kind, answers.MaxGridItemLength)
		}
		if seen[item] {
			return fmt.Errorf("duplicate %s: %s", kind, item)
		}
		seen[item] = true
	}
	return nil
}
