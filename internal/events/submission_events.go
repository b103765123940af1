package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gatherline/rsvp-service/internal/models"
)

// EventType represents different types of submission events
type EventType string

const (
	EventRSVPSubmitted         EventType = "rsvp.submitted"
	EventRSVPUpdated           EventType = "rsvp.updated"
	EventSurveyResponseCreated EventType = "survey.response_created"
)

// SubmissionEvent is the base event structure published whenever a
// submission is created or edited. Downstream consumers (notification
// sender, analytics warmer) key off Type.
type SubmissionEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Data      interface{} `json:"data"`
}

type RSVPSubmittedEvent struct {
	EventID      uint                `json:"event_id"`
	EventTitle   string              `json:"event_title"`
	SubmissionID uint                `json:"submission_id"`
	Identity     string              `json:"identity"`
	Response     models.RSVPResponse `json:"response"`
	NumAttendees int                 `json:"num_attendees"`
	Email        string              `json:"email,omitempty"`
	SubmittedAt  time.Time           `json:"submitted_at"`
}

type SurveyResponseCreatedEvent struct {
	SurveyID     uint      `json:"survey_id"`
	SurveyTitle  string    `json:"survey_title"`
	SubmissionID uint      `json:"submission_id"`
	AnswerCount  int       `json:"answer_count"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// Event factory functions

func NewRSVPSubmittedEvent(data RSVPSubmittedEvent) *SubmissionEvent {
	return newEvent(EventRSVPSubmitted, data)
}

func NewRSVPUpdatedEvent(data RSVPSubmittedEvent) *SubmissionEvent {
	return newEvent(EventRSVPUpdated, data)
}

func NewSurveyResponseCreatedEvent(data SurveyResponseCreatedEvent) *SubmissionEvent {
	return newEvent(EventSurveyResponseCreated, data)
}

func newEvent(t EventType, data interface{}) *SubmissionEvent {
	return &SubmissionEvent{
		ID:        watermill.NewUUID(),
		Type:      t,
		Timestamp: time.Now(),
		Source:    "rsvp-service",
		Version:   "1.0",
		Data:      data,
	}
}
