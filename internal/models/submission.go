package models

import (
	"time"

	"gorm.io/datatypes"
)

type RSVPResponse string

const (
	RSVPYes   RSVPResponse = "yes"
	RSVPNo    RSVPResponse = "no"
	RSVPMaybe RSVPResponse = "maybe"
)

func (r RSVPResponse) Valid() bool {
	return r == RSVPYes || r == RSVPNo || r == RSVPMaybe
}

// SurveySubmission is one respondent's complete set of answers for a survey.
// For event RSVPs the identity/response/contact fields are populated; for
// standalone surveys they stay nil. An edit overwrites the same submission.
type SurveySubmission struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SurveyID    uint      `json:"survey_id" gorm:"not null;index"`
	SubmittedAt time.Time `json:"submitted_at"`

	// RSVP fields (event submissions only)
	Identity     *string       `json:"identity"`
	RSVPResponse *RSVPResponse `json:"rsvp_response" gorm:"column:rsvp_response"`
	NumAttendees *int          `json:"num_attendees"`
	Email        *string       `json:"email"`
	Phone        *string       `json:"phone"`
	Comment      *string       `json:"comment" gorm:"type:text"`

	// bcrypt hash of the edit token handed out at creation time
	EditTokenHash *string `json:"-" gorm:"index"`

	// Relations
	Answers []QuestionResponse `json:"question_responses" gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

func (SurveySubmission) TableName() string {
	return "survey_submissions"
}

// AttendeeCount returns the number of people this submission accounts for.
// Older submissions predate the num_attendees column and count as 1.
func (s *SurveySubmission) AttendeeCount() int {
	if s.NumAttendees == nil || *s.NumAttendees < 1 {
		return 1
	}
	return *s.NumAttendees
}

// QuestionResponse is a single answer to a question within a submission.
// The answer column holds the type-dependent JSON shape defined by the
// answers package.
type QuestionResponse struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	SubmissionID uint           `json:"submission_id" gorm:"not null;index"`
	QuestionID   uint           `json:"question_id" gorm:"not null;index"`
	Answer       datatypes.JSON `json:"answer" gorm:"type:jsonb;not null"`
}

func (QuestionResponse) TableName() string {
	return "question_responses"
}
