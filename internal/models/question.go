package models

import (
	"sort"
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionCheckbox       QuestionType = "checkbox"
	QuestionYesNo          QuestionType = "yes_no"
	QuestionDateTime       QuestionType = "date_time"
	QuestionMatrix         QuestionType = "matrix"
	QuestionMatrixSingle   QuestionType = "matrix_single"
)

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionMultipleChoice, QuestionCheckbox,
		QuestionYesNo, QuestionDateTime, QuestionMatrix, QuestionMatrixSingle:
		return true
	}
	return false
}

// HasOptions reports whether the type carries an options payload.
// text, yes_no and date_time questions have none.
func (t QuestionType) HasOptions() bool {
	switch t {
	case QuestionMultipleChoice, QuestionCheckbox, QuestionMatrix, QuestionMatrixSingle:
		return true
	}
	return false
}

// AllowsOther reports whether the "allow other" flag is meaningful for the type.
func (t QuestionType) AllowsOther() bool {
	return t == QuestionMultipleChoice || t == QuestionCheckbox
}

type Question struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	SurveyID   uint           `json:"survey_id" gorm:"not null;index"`
	Type       QuestionType   `json:"question_type" gorm:"column:question_type;not null" validate:"required,question_type"`
	Text       string         `json:"question_text" gorm:"column:question_text;type:text;not null" validate:"required,max=2000"`
	Options    datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"`
	AllowOther bool           `json:"allow_other" gorm:"default:false"`
	Required   bool           `json:"required" gorm:"default:false"`
	Order      int            `json:"order" gorm:"column:display_order;default:0"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// SortQuestions orders questions by display order, ties broken by id.
func SortQuestions(questions []Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].Order != questions[j].Order {
			return questions[i].Order < questions[j].Order
		}
		return questions[i].ID < questions[j].ID
	})
}
