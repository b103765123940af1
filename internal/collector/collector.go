// Package collector drives the one-question-at-a-time response flow: a
// strictly linear step machine over an ordered question list, with the
// event-mode RSVP steps (details splash, identity, yes/no/maybe response,
// contact info) wrapped around the survey questions. It shares the answers
// package's required-field predicate with the server-side validator, so
// "Next is enabled" and "the server accepts" agree by construction.
package collector

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gatherline/rsvp-service/internal/answers"
	"github.com/gatherline/rsvp-service/internal/models"
)

// Mode selects the step layout.
type Mode int

const (
	// ModeEvent wraps the questions with the RSVP steps:
	// details splash, questions..., identity, response, contact.
	ModeEvent Mode = iota
	// ModeSurvey is the bare question sequence.
	ModeSurvey
)

// State is the collector's lifecycle phase.
type State int

const (
	StateLoading State = iota
	StateError
	StateStep
	StateSubmitting
	StateSubmitted
	StateSubmitFailed
)

var (
	ErrNotOnStep       = errors.New("collector is not on an interactive step")
	ErrCannotProceed   = errors.New("current step is not satisfied")
	ErrUnknownQuestion = errors.New("question is not part of this flow")
)

// RSVPDetails carries the event-mode fields collected outside the question
// sequence.
type RSVPDetails struct {
	Identity     string
	Response     models.RSVPResponse
	NumAttendees int
	Email        string
	Phone        string
	Comment      string
}

// Payload is the normalized submission handed to the transport layer once
// the flow completes.
type Payload struct {
	Answers map[uint]json.RawMessage
	RSVP    *RSVPDetails
}

// Collector is the step state machine. It is driven from a single logical
// thread of user interaction and is not safe for concurrent use.
type Collector struct {
	mode      Mode
	state     State
	step      int
	questions []models.Question
	values    map[uint]answers.Value
	rsvp      RSVPDetails
	errMsg    string
	editToken string
}

// New returns a collector in the Loading state.
func New(mode Mode) *Collector {
	return &Collector{mode: mode, state: StateLoading, values: make(map[uint]answers.Value)}
}

// Begin installs the loaded question list and moves to the first step.
// Questions are ordered by display order, ties by id.
func (c *Collector) Begin(questions []models.Question) {
	c.questions = make([]models.Question, len(questions))
	copy(c.questions, questions)
	models.SortQuestions(c.questions)
	c.state = StateStep
	c.step = 0
	c.errMsg = ""
}

// Fail moves to the Error state, used when loading the survey failed.
func (c *Collector) Fail(message string) {
	c.state = StateError
	c.errMsg = message
}

func (c *Collector) State() State    { return c.state }
func (c *Collector) Step() int       { return c.step }
func (c *Collector) Message() string { return c.errMsg }

// EditToken returns the token retained from the first successful submission,
// empty until then.
func (c *Collector) EditToken() string { return c.editToken }

// TotalSteps is the full step count for the configured mode:
// splash + questions + identity/response/contact in event mode, questions
// only in survey mode.
func (c *Collector) TotalSteps() int {
	if c.mode == ModeEvent {
		return 1 + len(c.questions) + 3
	}
	return len(c.questions)
}

// Progress is (currentStep+1)/totalSteps, the progress-bar fraction.
func (c *Collector) Progress() float64 {
	total := c.TotalSteps()
	if total == 0 || c.state != StateStep {
		return 0
	}
	return float64(c.step+1) / float64(total)
}

// questionAt maps a step index to its question, if the step is a question
// step.
func (c *Collector) questionAt(step int) (models.Question, bool) {
	idx := step
	if c.mode == ModeEvent {
		idx = step - 1 // step 0 is the event-details splash
	}
	if idx < 0 || idx >= len(c.questions) {
		return models.Question{}, false
	}
	return c.questions[idx], true
}

// CanProceed reports whether the current step is satisfied. Question steps
// use the same predicate the server-side validator applies.
func (c *Collector) CanProceed() bool {
	if c.state != StateStep {
		return false
	}
	if q, ok := c.questionAt(c.step); ok {
		if !q.Required {
			return true
		}
		v, answered := c.values[q.ID]
		return answered && v.Answered()
	}
	if c.mode == ModeSurvey {
		// A survey with no questions has nothing to gate on; the only step
		// is the submit step.
		return len(c.questions) == 0
	}
	switch c.step {
	case 0:
		// event details splash
		return true
	case 1 + len(c.questions):
		return strings.TrimSpace(c.rsvp.Identity) != ""
	case 2 + len(c.questions):
		if !c.rsvp.Response.Valid() {
			return false
		}
		if c.rsvp.Response == models.RSVPYes {
			return c.rsvp.NumAttendees >= 1
		}
		return true
	case 3 + len(c.questions):
		// contact step is always satisfied
		return true
	}
	return false
}

// Next advances one step, or moves into Submitting from the last step.
func (c *Collector) Next() error {
	if c.state != StateStep {
		return ErrNotOnStep
	}
	if !c.CanProceed() {
		return ErrCannotProceed
	}
	if c.step >= c.TotalSteps()-1 {
		c.state = StateSubmitting
		return nil
	}
	c.step++
	c.errMsg = ""
	return nil
}

// Back retreats one step. Previously entered answers are kept; any transient
// error message is cleared.
func (c *Collector) Back() error {
	if c.state == StateSubmitFailed {
		// returning to the last step after a failed submit
		c.state = StateStep
		c.errMsg = ""
		return nil
	}
	if c.state != StateStep || c.step == 0 {
		return ErrNotOnStep
	}
	c.step--
	c.errMsg = ""
	return nil
}

// SubmitSucceeded completes the flow. The edit token from the first
// submission is retained for later edits.
func (c *Collector) SubmitSucceeded(editToken string) {
	c.state = StateSubmitted
	if editToken != "" {
		c.editToken = editToken
	}
}

// SubmitFailed returns control to the last step so the user can retry or go
// back; it is never a dead end.
func (c *Collector) SubmitFailed(message string) {
	c.state = StateSubmitFailed
	c.step = c.TotalSteps() - 1
	if c.step < 0 {
		c.step = 0
	}
	c.errMsg = message
}

// Retry re-enters Submitting after a failed submit.
func (c *Collector) Retry() error {
	if c.state != StateSubmitFailed {
		return ErrNotOnStep
	}
	c.state = StateSubmitting
	return nil
}

// SetAnswer records the answer for a question anywhere in the flow.
func (c *Collector) SetAnswer(questionID uint, v answers.Value) error {
	if _, ok := c.question(questionID); !ok {
		return ErrUnknownQuestion
	}
	c.values[questionID] = v
	return nil
}

// ClearAnswer removes a recorded answer.
func (c *Collector) ClearAnswer(questionID uint) {
	delete(c.values, questionID)
}

// Answer returns the recorded answer for a question.
func (c *Collector) Answer(questionID uint) (answers.Value, bool) {
	v, ok := c.values[questionID]
	return v, ok
}

// ToggleGridCell flips one cell of a matrix question's answer.
func (c *Collector) ToggleGridCell(questionID uint, row, column string) error {
	q, ok := c.question(questionID)
	if !ok || q.Type != models.QuestionMatrix {
		return ErrUnknownQuestion
	}
	current, _ := c.values[questionID].(answers.Grid)
	c.values[questionID] = current.Toggle(row, column)
	return nil
}

// ToggleGridSingleCell applies the idempotent-click rule to a matrix_single
// answer: re-selecting a row's current column clears the row, a different
// column replaces it.
func (c *Collector) ToggleGridSingleCell(questionID uint, row, column string) error {
	q, ok := c.question(questionID)
	if !ok || q.Type != models.QuestionMatrixSingle {
		return ErrUnknownQuestion
	}
	current, ok := c.values[questionID].(answers.GridSingle)
	if !ok {
		current = answers.GridSingle{Selections: map[string]string{}}
	}
	c.values[questionID] = current.Toggle(row, column)
	return nil
}

// SetRSVP records the event-mode fields.
func (c *Collector) SetRSVP(details RSVPDetails) {
	c.rsvp = details
}

func (c *Collector) RSVP() RSVPDetails {
	return c.rsvp
}

// Resume preloads a previous submission's answers and RSVP fields for
// edit mode. Requires the edit token obtained at first submission.
func (c *Collector) Resume(editToken string, values map[uint]answers.Value, details RSVPDetails) {
	c.editToken = editToken
	for id, v := range values {
		c.values[id] = v
	}
	c.rsvp = details
}

// Payload produces the normalized submission payload: every recorded answer
// encoded in its wire shape, with optional unanswered text and matrix_single
// questions normalized to their canonical empty forms.
func (c *Collector) Payload() (Payload, error) {
	out := Payload{Answers: make(map[uint]json.RawMessage, len(c.values))}
	for _, q := range c.questions {
		v, ok := c.values[q.ID]
		if !ok || v == nil {
			// Absent optional answers: text normalizes to an empty string
			// and matrix_single to an empty mapping; other types are
			// omitted entirely.
			switch {
			case !q.Required && q.Type == models.QuestionText:
				v = answers.Text{}
			case !q.Required && q.Type == models.QuestionMatrixSingle:
				v = answers.GridSingle{Selections: map[string]string{}}
			default:
				continue
			}
		}
		raw, err := answers.Encode(v)
		if err != nil {
			return Payload{}, err
		}
		out.Answers[q.ID] = raw
	}
	if c.mode == ModeEvent {
		rsvp := c.rsvp
		out.RSVP = &rsvp
	}
	return out, nil
}

func (c *Collector) question(questionID uint) (models.Question, bool) {
	for _, q := range c.questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return models.Question{}, false
}
