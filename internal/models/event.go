package models

import "time"

// Event always owns a Survey; the RSVP flow collects answers into that survey.
type Event struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"not null;size:500"`
	Description     *string   `json:"description" gorm:"type:text"`
	Date            time.Time `json:"date" gorm:"not null"`
	Location        *string   `json:"location"`
	InvitationToken string    `json:"invitation_token" gorm:"uniqueIndex;not null"`
	AccessCodeHash  *string   `json:"-" gorm:"column:access_code"` // bcrypt hash, never exposed
	ShowRSVPList    bool      `json:"show_rsvp_list" gorm:"default:false;not null"`
	SurveyID        uint      `json:"survey_id" gorm:"not null"`
	CreatedBy       uint      `json:"created_by" gorm:"not null;index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Survey  Survey `json:"survey" gorm:"foreignKey:SurveyID"`
	Creator Admin  `json:"-" gorm:"foreignKey:CreatedBy"`
}

func (Event) TableName() string {
	return "events"
}

// HasAccessCode reports whether the event is access-code protected.
func (e *Event) HasAccessCode() bool {
	return e.AccessCodeHash != nil && *e.AccessCodeHash != ""
}
