package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gatherline/rsvp-service/internal/answers"
	"github.com/gatherline/rsvp-service/internal/events"
	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/utils"
	"github.com/gatherline/rsvp-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingSender struct {
	sent []string
}

func (r *recordingSender) Send(ctx context.Context, to, subject, body string) error {
	r.sent = append(r.sent, to+": "+subject+"\n"+body)
	return nil
}

type submissionHarness struct {
	repo      *fakeRepo
	publisher *events.MockEventPublisher
	sender    *recordingSender
	events    EventService
	svc       SubmissionService
}

func newSubmissionHarness() *submissionHarness {
	repo := newFakeRepo()
	publisher := events.NewMockEventPublisher()
	sender := &recordingSender{}
	logger := testLogger()
	eventService := NewEventService(repo, logger, validator.New())
	notifier := NewNotificationService(sender, logger)
	return &submissionHarness{
		repo:      repo,
		publisher: publisher,
		sender:    sender,
		events:    eventService,
		svc:       NewSubmissionService(repo, eventService, publisher, nil, notifier, "http://localhost:8080", logger),
	}
}

func rsvpRequest(identity string, response models.RSVPResponse) *SubmitRSVPRequest {
	req := &SubmitRSVPRequest{
		Identity: identity,
		Response: response,
	}
	if response == models.RSVPYes {
		one := 1
		req.NumAttendees = &one
	}
	return req
}

func TestSubmitRSVPIssuesEditTokenOnce(t *testing.T) {
	h := newSubmissionHarness()
	event := h.repo.seedEvent(
		models.Event{Title: "Garden Party", InvitationToken: "inv-1"},
		models.Question{Type: models.QuestionText, Text: "Dietary needs?", Order: 1},
	)

	req := rsvpRequest("Ada", models.RSVPYes)
	req.Answers = map[uint]json.RawMessage{
		event.Survey.Questions[0].ID: json.RawMessage(`"vegetarian"`),
	}

	result, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", req)
	require.NoError(t, err)
	require.NotEmpty(t, result.EditToken)

	stored, err := h.repo.Submission().GetByID(context.Background(), result.SubmissionID)
	require.NoError(t, err)
	require.NotNil(t, stored.EditTokenHash)
	assert.NotEqual(t, result.EditToken, *stored.EditTokenHash)
	assert.True(t, utils.CheckSecret(*stored.EditTokenHash, result.EditToken))

	require.Len(t, stored.Answers, 1)
	assert.JSONEq(t, `"vegetarian"`, string(stored.Answers[0].Answer))
}

func TestSubmitRSVPRequiresAttendeesWhenAttending(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1"})

	req := &SubmitRSVPRequest{Identity: "Ada", Response: models.RSVPYes}
	_, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", req)
	assert.ErrorIs(t, err, ErrAttendeeCountRequired)
}

func TestSubmitRSVPKeepsMaybeAttendeesOptional(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1"})

	result, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", rsvpRequest("Ada", models.RSVPMaybe))
	require.NoError(t, err)

	stored, err := h.repo.Submission().GetByID(context.Background(), result.SubmissionID)
	require.NoError(t, err)
	assert.Nil(t, stored.NumAttendees)
	assert.Equal(t, 1, stored.AttendeeCount())
}

func TestSubmitRSVPDeclineClearsAttendees(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1"})

	req := rsvpRequest("Ada", models.RSVPNo)
	five := 5
	req.NumAttendees = &five

	result, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", req)
	require.NoError(t, err)

	stored, err := h.repo.Submission().GetByID(context.Background(), result.SubmissionID)
	require.NoError(t, err)
	assert.Nil(t, stored.NumAttendees)
	assert.Equal(t, 1, stored.AttendeeCount())
}

func TestSubmitRSVPRejectsBlankIdentity(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1"})

	_, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", rsvpRequest("   ", models.RSVPYes))
	assert.ErrorIs(t, err, ErrIdentityRequired)
}

func TestSubmitRSVPRejectsZeroAttendeesWhenAttending(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1"})

	req := rsvpRequest("Ada", models.RSVPYes)
	zero := 0
	req.NumAttendees = &zero

	_, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", req)
	assert.ErrorIs(t, err, ErrAttendeeCountRequired)
}

func TestSubmitRSVPRejectsMissingRequiredAnswer(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(
		models.Event{Title: "Party", InvitationToken: "inv-1"},
		models.Question{Type: models.QuestionText, Text: "Dietary needs?", Required: true, Order: 1},
	)

	_, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", rsvpRequest("Ada", models.RSVPYes))
	require.Error(t, err)

	var verr *answers.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, answers.KindMissingRequired, verr.Kind)
}

func TestSubmitRSVPEnforcesAccessCode(t *testing.T) {
	h := newSubmissionHarness()
	hash, err := utils.HashSecret("sesame")
	require.NoError(t, err)
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1", AccessCodeHash: &hash})

	_, err = h.svc.SubmitRSVP(context.Background(), "inv-1", "", rsvpRequest("Ada", models.RSVPYes))
	assert.ErrorIs(t, err, ErrAccessCodeRequired)

	_, err = h.svc.SubmitRSVP(context.Background(), "inv-1", "wrong", rsvpRequest("Ada", models.RSVPYes))
	assert.ErrorIs(t, err, ErrAccessCodeInvalid)

	_, err = h.svc.SubmitRSVP(context.Background(), "inv-1", "sesame", rsvpRequest("Ada", models.RSVPYes))
	assert.NoError(t, err)
}

func TestSubmitRSVPDropsUnknownQuestionIDs(t *testing.T) {
	h := newSubmissionHarness()
	event := h.repo.seedEvent(
		models.Event{Title: "Party", InvitationToken: "inv-1"},
		models.Question{Type: models.QuestionText, Text: "Dietary needs?", Order: 1},
	)

	req := rsvpRequest("Ada", models.RSVPYes)
	req.Answers = map[uint]json.RawMessage{
		event.Survey.Questions[0].ID: json.RawMessage(`"nut allergy"`),
		9999:                         json.RawMessage(`"stray"`),
	}

	result, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", req)
	require.NoError(t, err)

	stored, err := h.repo.Submission().GetByID(context.Background(), result.SubmissionID)
	require.NoError(t, err)
	require.Len(t, stored.Answers, 1)
	assert.Equal(t, event.Survey.Questions[0].ID, stored.Answers[0].QuestionID)
}

func TestSubmitRSVPPublishesEvent(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1"})

	_, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", rsvpRequest("Ada", models.RSVPYes))
	require.NoError(t, err)

	require.Len(t, h.publisher.Events, 1)
	assert.Equal(t, events.EventRSVPSubmitted, h.publisher.Events[0].Type)
}

func TestUpdateRSVPKeepsEditTokenValid(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1"})

	created, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", rsvpRequest("Ada", models.RSVPYes))
	require.NoError(t, err)

	updated, err := h.svc.UpdateRSVP(context.Background(), "inv-1", created.EditToken, rsvpRequest("Ada", models.RSVPNo))
	require.NoError(t, err)
	assert.Equal(t, created.SubmissionID, updated.SubmissionID)
	assert.Empty(t, updated.EditToken, "the token is only handed out at creation")

	mine, err := h.svc.GetMyRSVP(context.Background(), "inv-1", created.EditToken)
	require.NoError(t, err)
	require.NotNil(t, mine.RSVPResponse)
	assert.Equal(t, models.RSVPNo, *mine.RSVPResponse)
	assert.Nil(t, mine.NumAttendees)

	require.Len(t, h.publisher.Events, 2)
	assert.Equal(t, events.EventRSVPUpdated, h.publisher.Events[1].Type)
}

func TestUpdateRSVPRejectsBadEditToken(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1"})

	_, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", rsvpRequest("Ada", models.RSVPYes))
	require.NoError(t, err)

	_, err = h.svc.UpdateRSVP(context.Background(), "inv-1", "not-a-token", rsvpRequest("Ada", models.RSVPNo))
	assert.ErrorIs(t, err, ErrEditTokenInvalid)

	_, err = h.svc.UpdateRSVP(context.Background(), "inv-1", "", rsvpRequest("Ada", models.RSVPNo))
	assert.ErrorIs(t, err, ErrEditTokenInvalid)
}

func TestSubmitSurveyResponseHasNoEditToken(t *testing.T) {
	h := newSubmissionHarness()
	survey := h.repo.seedSurvey(
		models.Survey{Title: "Feedback", SurveyToken: "sv-1"},
		models.Question{Type: models.QuestionYesNo, Text: "Enjoyed it?", Order: 1},
	)

	result, err := h.svc.SubmitSurveyResponse(context.Background(), "sv-1", map[uint]json.RawMessage{
		survey.Questions[0].ID: json.RawMessage(`true`),
	})
	require.NoError(t, err)
	assert.Empty(t, result.EditToken)

	stored, err := h.repo.Submission().GetByID(context.Background(), result.SubmissionID)
	require.NoError(t, err)
	assert.Nil(t, stored.RSVPResponse)
	assert.Nil(t, stored.EditTokenHash)
	require.Len(t, stored.Answers, 1)

	require.Len(t, h.publisher.Events, 1)
	assert.Equal(t, events.EventSurveyResponseCreated, h.publisher.Events[0].Type)
}

func TestSubmitRSVPSendsConfirmationWithEditLink(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1", Date: time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)})

	req := rsvpRequest("Ada", models.RSVPYes)
	req.Email = strPtr("ada@example.com")

	result, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", req)
	require.NoError(t, err)

	require.Len(t, h.sender.sent, 1)
	assert.Contains(t, h.sender.sent[0], "ada@example.com")
	assert.Contains(t, h.sender.sent[0], result.EditToken)
}

func TestSubmitRSVPWithoutEmailSendsNothing(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1"})

	_, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", rsvpRequest("Ada", models.RSVPYes))
	require.NoError(t, err)
	assert.Empty(t, h.sender.sent)
}

func TestListSubmissions(t *testing.T) {
	h := newSubmissionHarness()
	h.repo.seedEvent(models.Event{Title: "Party", InvitationToken: "inv-1"})

	_, err := h.svc.SubmitRSVP(context.Background(), "inv-1", "", rsvpRequest("Ada", models.RSVPYes))
	require.NoError(t, err)
	_, err = h.svc.SubmitRSVP(context.Background(), "inv-1", "", rsvpRequest("Ben", models.RSVPNo))
	require.NoError(t, err)

	event, err := h.repo.Event().GetByInvitationToken(context.Background(), "inv-1")
	require.NoError(t, err)

	submissions, err := h.svc.ListSubmissions(context.Background(), event.SurveyID)
	require.NoError(t, err)
	assert.Len(t, submissions, 2)

	_, err = h.svc.ListSubmissions(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestSubmitSurveyResponseUnknownToken(t *testing.T) {
	h := newSubmissionHarness()

	_, err := h.svc.SubmitSurveyResponse(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}
