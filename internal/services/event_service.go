package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"github.com/gatherline/rsvp-service/internal/utils"
	"github.com/gatherline/rsvp-service/internal/validator"
)

// EventService manages events and the public invitation views.
type EventService interface {
	// Admin operations
	Create(ctx context.Context, req *CreateEventRequest, creatorID uint) (*models.Event, error)
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, id uint, req *UpdateEventRequest) (*models.Event, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error)

	// Public operations
	GetByInvitationToken(ctx context.Context, token, accessCode string) (*models.Event, error)
	VerifyAccessCode(ctx context.Context, token, accessCode string) error
	GetRSVPStats(ctx context.Context, token, accessCode string) (*RSVPStats, error)
}

type CreateEventRequest struct {
	Title        string    `json:"title" validate:"required,max=500"`
	Description  *string   `json:"description"`
	Date         time.Time `json:"date" validate:"required"`
	Location     *string   `json:"location"`
	AccessCode   *string   `json:"access_code" validate:"omitempty,min=4,max=64"`
	ShowRSVPList bool      `json:"show_rsvp_list"`

	Questions []models.Question `json:"questions"`
}

type UpdateEventRequest struct {
	Title        *string    `json:"title" validate:"omitempty,max=500"`
	Description  *string    `json:"description"`
	Date         *time.Time `json:"date"`
	Location     *string    `json:"location"`
	AccessCode   *string    `json:"access_code" validate:"omitempty,min=4,max=64"`
	ShowRSVPList *bool      `json:"show_rsvp_list"`
}

// RSVPStats is the public attendance summary for an event.
type RSVPStats struct {
	YesCount       int             `json:"yes_count"`
	NoCount        int             `json:"no_count"`
	MaybeCount     int             `json:"maybe_count"`
	TotalAttendees int             `json:"total_attendees"`
	Attendees      []AttendeeEntry `json:"attendees,omitempty"`
}

// AttendeeEntry is one row of the public RSVP list, shown only when the
// event enables it.
type AttendeeEntry struct {
	Identity     string              `json:"identity"`
	Response     models.RSVPResponse `json:"response"`
	NumAttendees int                 `json:"num_attendees"`
}

type eventService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewEventService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) EventService {
	return &eventService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== ADMIN OPERATIONS =====

func (s *eventService) Create(ctx context.Context, req *CreateEventRequest, creatorID uint) (*models.Event, error) {
	s.logger.Info("Creating event", "creator_id", creatorID, "title", req.Title)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}
	for i := range req.Questions {
		if err := s.validator.Question().ValidateQuestion(&req.Questions[i]); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	invitationToken, err := s.uniqueInvitationToken(ctx)
	if err != nil {
		return nil, err
	}
	surveyToken, err := utils.GenerateToken()
	if err != nil {
		return nil, err
	}

	var accessCodeHash *string
	if req.AccessCode != nil && *req.AccessCode != "" {
		hash, err := utils.HashSecret(*req.AccessCode)
		if err != nil {
			return nil, err
		}
		accessCodeHash = &hash
	}

	var event *models.Event
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		survey := &models.Survey{
			Title:       req.Title,
			Description: req.Description,
			SurveyToken: surveyToken,
		}
		if err := tx.Survey().Create(ctx, survey); err != nil {
			return err
		}

		event = &models.Event{
			Title:           req.Title,
			Description:     req.Description,
			Date:            req.Date,
			Location:        req.Location,
			InvitationToken: invitationToken,
			AccessCodeHash:  accessCodeHash,
			ShowRSVPList:    req.ShowRSVPList,
			SurveyID:        survey.ID,
			CreatedBy:       creatorID,
		}
		if err := tx.Event().Create(ctx, event); err != nil {
			return err
		}

		// Bind the survey back to its owner.
		survey.EventID = &event.ID
		if err := tx.Survey().Update(ctx, survey); err != nil {
			return err
		}

		if len(req.Questions) > 0 {
			questions := make([]*models.Question, len(req.Questions))
			for i := range req.Questions {
				req.Questions[i].SurveyID = survey.ID
				questions[i] = &req.Questions[i]
			}
			if err := tx.Question().CreateBatch(ctx, questions); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Event created", "event_id", event.ID, "survey_id", event.SurveyID)
	return s.repo.Event().GetByID(ctx, event.ID)
}

func (s *eventService) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.repo.Event().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, id uint, req *UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.ShowRSVPList != nil {
		event.ShowRSVPList = *req.ShowRSVPList
	}
	if req.AccessCode != nil {
		if *req.AccessCode == "" {
			event.AccessCodeHash = nil
		} else {
			hash, err := utils.HashSecret(*req.AccessCode)
			if err != nil {
				return nil, err
			}
			event.AccessCodeHash = &hash
		}
	}

	if err := s.repo.Event().Update(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("Event updated", "event_id", id)
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Event().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrEventNotFound
		}
		return err
	}
	s.logger.Info("Event deleted", "event_id", id)
	return nil
}

func (s *eventService) List(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	return s.repo.Event().List(ctx, filters)
}

// ===== PUBLIC OPERATIONS =====

// GetByInvitationToken resolves the public invitation URL. For protected
// events the access code must match before any detail beyond the title is
// returned.
func (s *eventService) GetByInvitationToken(ctx context.Context, token, accessCode string) (*models.Event, error) {
	event, err := s.repo.Event().GetByInvitationToken(ctx, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if event.HasAccessCode() {
		if accessCode == "" {
			return nil, ErrAccessCodeRequired
		}
		if !utils.CheckSecret(*event.AccessCodeHash, accessCode) {
			return nil, ErrAccessCodeInvalid
		}
	}

	return event, nil
}

func (s *eventService) VerifyAccessCode(ctx context.Context, token, accessCode string) error {
	_, err := s.GetByInvitationToken(ctx, token, accessCode)
	return err
}

// GetRSVPStats aggregates attendance counts for the public stats view.
func (s *eventService) GetRSVPStats(ctx context.Context, token, accessCode string) (*RSVPStats, error) {
	event, err := s.GetByInvitationToken(ctx, token, accessCode)
	if err != nil {
		return nil, err
	}

	submissions, err := s.repo.Submission().ListBySurvey(ctx, event.SurveyID)
	if err != nil {
		return nil, err
	}

	stats := &RSVPStats{}
	for _, sub := range submissions {
		if sub.RSVPResponse == nil {
			continue
		}
		switch *sub.RSVPResponse {
		case models.RSVPYes:
			stats.YesCount++
			stats.TotalAttendees += sub.AttendeeCount()
		case models.RSVPNo:
			stats.NoCount++
		case models.RSVPMaybe:
			stats.MaybeCount++
		}

		if event.ShowRSVPList && sub.Identity != nil {
			stats.Attendees = append(stats.Attendees, AttendeeEntry{
				Identity:     *sub.Identity,
				Response:     *sub.RSVPResponse,
				NumAttendees: sub.AttendeeCount(),
			})
		}
	}

	return stats, nil
}

// uniqueInvitationToken generates a token not yet in use. Collisions are
// astronomically unlikely but the check is cheap.
func (s *eventService) uniqueInvitationToken(ctx context.Context) (string, error) {
	for i := 0; i < 3; i++ {
		token, err := utils.GenerateToken()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.Event().ExistsByInvitationToken(ctx, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique invitation token")
}
