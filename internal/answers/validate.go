package answers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gatherline/rsvp-service/internal/models"
)

// Kind classifies a submission rejection.
type Kind string

const (
	KindMissingRequired Kind = "missing_required_answer"
	KindInvalidShape    Kind = "invalid_answer_shape"
	KindInvalidOption   Kind = "invalid_option"
	KindOtherNotAllowed Kind = "other_not_allowed"
)

// Error is a typed rejection: which question and why. Expected conditions
// are always returned as *Error values, never panics.
type Error struct {
	Kind       Kind `json:"kind"`
	QuestionID uint `json:"question_id"`
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingRequired:
		return fmt.Sprintf("question %d: a required answer is missing", e.QuestionID)
	case KindInvalidShape:
		return fmt.Sprintf("question %d: answer shape does not match the question type", e.QuestionID)
	case KindInvalidOption:
		return fmt.Sprintf("question %d: answer references an option that is not configured", e.QuestionID)
	case KindOtherNotAllowed:
		return fmt.Sprintf("question %d: this question does not accept an \"other\" answer", e.QuestionID)
	}
	return fmt.Sprintf("question %d: invalid answer", e.QuestionID)
}

func newError(kind Kind, questionID uint) *Error {
	return &Error{Kind: kind, QuestionID: questionID}
}

// Validate checks a decoded, non-empty value against the question's
// configuration: option membership, grid row/column membership, "other"
// permission, and size limits. Emptiness and required-ness are the caller's
// concern (see ValidateSubmission).
func Validate(q models.Question, v Value) *Error {
	switch q.Type {
	case models.QuestionText:
		t, ok := v.(Text)
		if !ok || len(t.Value) > MaxTextAnswerLength {
			return newError(KindInvalidShape, q.ID)
		}

	case models.QuestionMultipleChoice:
		c, ok := v.(Choice)
		if !ok {
			return newError(KindInvalidShape, q.ID)
		}
		if c.Other() {
			if !q.AllowOther {
				return newError(KindOtherNotAllowed, q.ID)
			}
			if strings.TrimSpace(c.OtherText) == "" {
				return newError(KindMissingRequired, q.ID)
			}
			if len(c.OtherText) > MaxTextAnswerLength {
				return newError(KindInvalidShape, q.ID)
			}
			return nil
		}
		opts, err := DecodeChoiceOptions(q)
		if err != nil {
			return newError(KindInvalidOption, q.ID)
		}
		if opts != nil && !opts.Contains(c.Option) {
			return newError(KindInvalidOption, q.ID)
		}

	case models.QuestionCheckbox:
		c, ok := v.(Checkbox)
		if !ok {
			return newError(KindInvalidShape, q.ID)
		}
		if c.Other() {
			if !q.AllowOther {
				return newError(KindOtherNotAllowed, q.ID)
			}
			if strings.TrimSpace(c.OtherText) == "" {
				return newError(KindMissingRequired, q.ID)
			}
			if len(c.OtherText) > MaxTextAnswerLength {
				return newError(KindInvalidShape, q.ID)
			}
		}
		opts, err := DecodeChoiceOptions(q)
		if err != nil {
			return newError(KindInvalidOption, q.ID)
		}
		for _, val := range c.Values {
			if val == OtherToken {
				continue
			}
			if opts != nil && !opts.Contains(val) {
				return newError(KindInvalidOption, q.ID)
			}
		}

	case models.QuestionYesNo:
		if _, ok := v.(YesNo); !ok {
			return newError(KindInvalidShape, q.ID)
		}

	case models.QuestionDateTime:
		d, ok := v.(DateTime)
		if !ok || len(d.Value) > MaxDateTimeAnswerLength {
			return newError(KindInvalidShape, q.ID)
		}

	case models.QuestionMatrix:
		g, ok := v.(Grid)
		if !ok || len(g.Selections) > MaxGridSelections {
			return newError(KindInvalidShape, q.ID)
		}
		opts, err := DecodeGridOptions(q)
		if err != nil {
			return newError(KindInvalidOption, q.ID)
		}
		for _, sel := range g.Selections {
			if len(sel) > MaxGridItemLength || !opts.HasCell(sel) {
				return newError(KindInvalidOption, q.ID)
			}
		}

	case models.QuestionMatrixSingle:
		g, ok := v.(GridSingle)
		if !ok || len(g.Selections) > MaxGridRows {
			return newError(KindInvalidShape, q.ID)
		}
		opts, err := DecodeGridOptions(q)
		if err != nil {
			return newError(KindInvalidOption, q.ID)
		}
		for row, col := range g.Selections {
			if len(row) > MaxGridItemLength || len(col) > MaxGridItemLength {
				return newError(KindInvalidOption, q.ID)
			}
			if !opts.HasRow(row) || !opts.HasColumn(col) {
				return newError(KindInvalidOption, q.ID)
			}
		}

	default:
		return newError(KindInvalidShape, q.ID)
	}

	return nil
}

// ValidateSubmission re-validates a client-submitted raw answer map against
// the authoritative question list and returns the cleaned, normalized map
// ready for persistence. This runs on every submission and every edit; the
// interactive collector's checks are UX only.
//
// Entries for question ids not in the authoritative list are silently
// dropped, defending against stale clients referencing deleted questions.
func ValidateSubmission(questions []models.Question, raw map[uint]json.RawMessage) (map[uint]Value, *Error) {
	cleaned := make(map[uint]Value, len(raw))

	for _, q := range questions {
		rawAnswer, present := raw[q.ID]
		if present && isNull(rawAnswer) {
			present = false
		}

		if !present {
			if q.Required {
				return nil, newError(KindMissingRequired, q.ID)
			}
			// Optional and absent: text and matrix_single get their
			// canonical empty shape; other types are simply omitted.
			switch q.Type {
			case models.QuestionText:
				cleaned[q.ID] = Text{}
			case models.QuestionMatrixSingle:
				cleaned[q.ID] = GridSingle{Selections: map[string]string{}}
			}
			continue
		}

		v, err := Decode(q.Type, rawAnswer)
		if err != nil {
			return nil, newError(KindInvalidShape, q.ID)
		}

		if !v.Answered() {
			if q.Required {
				return nil, newError(KindMissingRequired, q.ID)
			}
			if empty := Empty(q.Type); empty != nil {
				cleaned[q.ID] = empty
			}
			continue
		}

		if verr := Validate(q, v); verr != nil {
			return nil, verr
		}
		cleaned[q.ID] = v
	}

	return cleaned, nil
}
