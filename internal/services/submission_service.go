package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gatherline/rsvp-service/internal/answers"
	"github.com/gatherline/rsvp-service/internal/cache"
	"github.com/gatherline/rsvp-service/internal/events"
	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"github.com/gatherline/rsvp-service/internal/utils"
)

// SubmissionService handles the public submission flows: event RSVPs with
// survey answers, standalone survey responses, and edits via edit token.
type SubmissionService interface {
	SubmitRSVP(ctx context.Context, eventToken, accessCode string, req *SubmitRSVPRequest) (*SubmissionResult, error)
	UpdateRSVP(ctx context.Context, eventToken, editToken string, req *SubmitRSVPRequest) (*SubmissionResult, error)
	GetMyRSVP(ctx context.Context, eventToken, editToken string) (*models.SurveySubmission, error)

	SubmitSurveyResponse(ctx context.Context, surveyToken string, answerPayload map[uint]json.RawMessage) (*SubmissionResult, error)

	// Admin operations
	ListSubmissions(ctx context.Context, surveyID uint) ([]*models.SurveySubmission, error)
}

type SubmitRSVPRequest struct {
	Identity     string              `json:"identity" validate:"required,max=200"`
	Response     models.RSVPResponse `json:"response" validate:"required,rsvp_response"`
	NumAttendees *int                `json:"num_attendees" validate:"omitempty,gte=1"`
	Email        *string             `json:"email" validate:"omitempty,email"`
	Phone        *string             `json:"phone" validate:"omitempty,max=50"`
	Comment      *string             `json:"comment" validate:"omitempty,max=2000"`

	Answers map[uint]json.RawMessage `json:"answers"`
}

// SubmissionResult is returned after a successful submission. The edit token
// appears exactly once, at creation time; it is never retrievable again.
type SubmissionResult struct {
	SubmissionID uint   `json:"submission_id"`
	EditToken    string `json:"edit_token,omitempty"`
}

type submissionService struct {
	repo      repositories.Repository
	events    EventService
	publisher events.EventPublisher
	cache     cache.CacheService
	notifier  NotificationService
	baseURL   string
	logger    *slog.Logger
}

func NewSubmissionService(
	repo repositories.Repository,
	eventService EventService,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	notifier NotificationService,
	baseURL string,
	logger *slog.Logger,
) SubmissionService {
	return &submissionService{
		repo:      repo,
		events:    eventService,
		publisher: publisher,
		cache:     cacheService,
		notifier:  notifier,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// ===== RSVP FLOW =====

func (s *submissionService) SubmitRSVP(ctx context.Context, eventToken, accessCode string, req *SubmitRSVPRequest) (*SubmissionResult, error) {
	event, err := s.events.GetByInvitationToken(ctx, eventToken, accessCode)
	if err != nil {
		return nil, err
	}

	if err := s.validateRSVPFields(req); err != nil {
		return nil, err
	}

	answerRows, err := s.cleanAnswers(event.Survey.Questions, req.Answers)
	if err != nil {
		return nil, err
	}

	editToken, err := utils.GenerateToken()
	if err != nil {
		return nil, err
	}
	editTokenHash, err := utils.HashSecret(editToken)
	if err != nil {
		return nil, err
	}

	submission := &models.SurveySubmission{
		SurveyID:      event.SurveyID,
		SubmittedAt:   time.Now(),
		Identity:      &req.Identity,
		RSVPResponse:  &req.Response,
		NumAttendees:  normalizeAttendees(req),
		Email:         req.Email,
		Phone:         req.Phone,
		Comment:       req.Comment,
		EditTokenHash: &editTokenHash,
		Answers:       answerRows,
	}

	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		return nil, err
	}

	s.logger.Info("RSVP submitted",
		"event_id", event.ID,
		"submission_id", submission.ID,
		"response", req.Response)

	s.invalidateResults(ctx, event.SurveyID)
	s.publish(ctx, events.NewRSVPSubmittedEvent(s.rsvpEventData(event, submission)))
	s.sendConfirmation(ctx, event, submission, editToken)

	return &SubmissionResult{SubmissionID: submission.ID, EditToken: editToken}, nil
}

func (s *submissionService) UpdateRSVP(ctx context.Context, eventToken, editToken string, req *SubmitRSVPRequest) (*SubmissionResult, error) {
	event, submission, err := s.findByEditToken(ctx, eventToken, editToken)
	if err != nil {
		return nil, err
	}

	if err := s.validateRSVPFields(req); err != nil {
		return nil, err
	}

	answerRows, err := s.cleanAnswers(event.Survey.Questions, req.Answers)
	if err != nil {
		return nil, err
	}

	submission.SubmittedAt = time.Now()
	submission.Identity = &req.Identity
	submission.RSVPResponse = &req.Response
	submission.NumAttendees = normalizeAttendees(req)
	submission.Email = req.Email
	submission.Phone = req.Phone
	submission.Comment = req.Comment

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Submission().Update(ctx, submission); err != nil {
			return err
		}
		return tx.Submission().ReplaceAnswers(ctx, submission.ID, answerRows)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("RSVP updated",
		"event_id", event.ID,
		"submission_id", submission.ID,
		"response", req.Response)

	s.invalidateResults(ctx, event.SurveyID)
	s.publish(ctx, events.NewRSVPUpdatedEvent(s.rsvpEventData(event, submission)))

	// The original edit token stays valid; it is not re-issued.
	return &SubmissionResult{SubmissionID: submission.ID}, nil
}

func (s *submissionService) GetMyRSVP(ctx context.Context, eventToken, editToken string) (*models.SurveySubmission, error) {
	_, submission, err := s.findByEditToken(ctx, eventToken, editToken)
	if err != nil {
		return nil, err
	}
	return submission, nil
}

// ===== STANDALONE SURVEY FLOW =====

func (s *submissionService) SubmitSurveyResponse(ctx context.Context, surveyToken string, answerPayload map[uint]json.RawMessage) (*SubmissionResult, error) {
	survey, err := s.repo.Survey().GetByToken(ctx, surveyToken)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}

	answerRows, err := s.cleanAnswers(survey.Questions, answerPayload)
	if err != nil {
		return nil, err
	}

	submission := &models.SurveySubmission{
		SurveyID:    survey.ID,
		SubmittedAt: time.Now(),
		Answers:     answerRows,
	}

	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		return nil, err
	}

	s.logger.Info("Survey response submitted",
		"survey_id", survey.ID,
		"submission_id", submission.ID,
		"answer_count", len(answerRows))

	s.invalidateResults(ctx, survey.ID)
	s.publish(ctx, events.NewSurveyResponseCreatedEvent(events.SurveyResponseCreatedEvent{
		SurveyID:     survey.ID,
		SurveyTitle:  survey.Title,
		SubmissionID: submission.ID,
		AnswerCount:  len(answerRows),
		SubmittedAt:  submission.SubmittedAt,
	}))

	return &SubmissionResult{SubmissionID: submission.ID}, nil
}

// ===== ADMIN OPERATIONS =====

func (s *submissionService) ListSubmissions(ctx context.Context, surveyID uint) ([]*models.SurveySubmission, error) {
	if _, err := s.repo.Survey().GetByID(ctx, surveyID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}
	return s.repo.Submission().ListBySurvey(ctx, surveyID)
}

// ===== HELPERS =====

// cleanAnswers runs the submission validator and encodes the normalized
// values into answer rows. A nil error from the validator means every row is
// in canonical shape.
func (s *submissionService) cleanAnswers(questions []models.Question, raw map[uint]json.RawMessage) ([]models.QuestionResponse, error) {
	cleaned, verr := answers.ValidateSubmission(questions, raw)
	if verr != nil {
		return nil, verr
	}

	rows := make([]models.QuestionResponse, 0, len(cleaned))
	for _, q := range questions {
		v, ok := cleaned[q.ID]
		if !ok {
			continue
		}
		encoded, err := answers.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode answer for question %d: %w", q.ID, err)
		}
		rows = append(rows, models.QuestionResponse{
			QuestionID: q.ID,
			Answer:     []byte(encoded),
		})
	}
	return rows, nil
}

func (s *submissionService) validateRSVPFields(req *SubmitRSVPRequest) error {
	if strings.TrimSpace(req.Identity) == "" {
		return ErrIdentityRequired
	}
	if !req.Response.Valid() {
		return ErrValidationFailed
	}
	if req.Response == models.RSVPYes {
		if req.NumAttendees == nil || *req.NumAttendees < 1 {
			return ErrAttendeeCountRequired
		}
	}
	return nil
}

// normalizeAttendees applies the per-response attendee rules: attending
// keeps the validated count, declining clears it.
func normalizeAttendees(req *SubmitRSVPRequest) *int {
	switch req.Response {
	case models.RSVPYes:
		return req.NumAttendees
	case models.RSVPMaybe:
		return req.NumAttendees
	default:
		return nil
	}
}

// findByEditToken resolves an edit token against the event's submissions.
// Tokens are stored hashed, so each candidate is checked with bcrypt.
func (s *submissionService) findByEditToken(ctx context.Context, eventToken, editToken string) (*models.Event, *models.SurveySubmission, error) {
	if editToken == "" {
		return nil, nil, ErrEditTokenInvalid
	}

	event, err := s.repo.Event().GetByInvitationToken(ctx, eventToken)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, err
	}

	submissions, err := s.repo.Submission().ListBySurvey(ctx, event.SurveyID)
	if err != nil {
		return nil, nil, err
	}

	for _, sub := range submissions {
		if sub.EditTokenHash == nil {
			continue
		}
		if utils.CheckSecret(*sub.EditTokenHash, editToken) {
			return event, sub, nil
		}
	}
	return nil, nil, ErrEditTokenInvalid
}

func (s *submissionService) rsvpEventData(event *models.Event, submission *models.SurveySubmission) events.RSVPSubmittedEvent {
	data := events.RSVPSubmittedEvent{
		EventID:      event.ID,
		EventTitle:   event.Title,
		SubmissionID: submission.ID,
		NumAttendees: submission.AttendeeCount(),
		SubmittedAt:  submission.SubmittedAt,
	}
	if submission.Identity != nil {
		data.Identity = *submission.Identity
	}
	if submission.RSVPResponse != nil {
		data.Response = *submission.RSVPResponse
	}
	if submission.Email != nil {
		data.Email = *submission.Email
	}
	return data
}

// sendConfirmation emails the respondent their edit link. Failures are logged,
// never surfaced to the caller.
func (s *submissionService) sendConfirmation(ctx context.Context, event *models.Event, submission *models.SurveySubmission, editToken string) {
	if s.notifier == nil {
		return
	}

	editURL := ""
	if s.baseURL != "" && editToken != "" {
		editURL = fmt.Sprintf("%s/events/%s/my-rsvp?edit_token=%s", s.baseURL, event.InvitationToken, editToken)
	}

	if err := s.notifier.SendRSVPConfirmation(ctx, event, submission, editURL); err != nil {
		s.logger.Error("Failed to send RSVP confirmation",
			"submission_id", submission.ID,
			"error", err)
	}
}

// publish sends the event without letting broker trouble fail the submission.
func (s *submissionService) publish(ctx context.Context, event *events.SubmissionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSubmissionEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish submission event",
			"event_type", event.Type,
			"error", err)
	}
}

func (s *submissionService) invalidateResults(ctx context.Context, surveyID uint) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("results:survey:%d:*", surveyID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.logger.Warn("Failed to invalidate results cache", "survey_id", surveyID, "error", err)
	}
}
