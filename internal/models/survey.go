package models

import "time"

// Survey can be standalone (reached by its own token) or owned by an Event.
type Survey struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	EventID     *uint     `json:"event_id" gorm:"index"`
	Title       string    `json:"title" gorm:"not null;size:500"`
	Description *string   `json:"description" gorm:"type:text"`
	SurveyToken string    `json:"survey_token" gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Questions   []Question         `json:"questions" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	Submissions []SurveySubmission `json:"-" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
}

func (Survey) TableName() string {
	return "surveys"
}
