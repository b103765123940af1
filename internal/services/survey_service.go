package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gatherline/rsvp-service/internal/cache"
	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"github.com/gatherline/rsvp-service/internal/utils"
	"github.com/gatherline/rsvp-service/internal/validator"
)

// SurveyService manages standalone surveys and question authoring.
type SurveyService interface {
	// Admin operations
	Create(ctx context.Context, req *CreateSurveyRequest) (*models.Survey, error)
	GetByID(ctx context.Context, id uint) (*models.Survey, error)
	Update(ctx context.Context, id uint, req *UpdateSurveyRequest) (*models.Survey, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.SurveyFilters) ([]*models.Survey, int64, error)

	// Question authoring
	AddQuestion(ctx context.Context, surveyID uint, question *models.Question) (*models.Question, error)
	UpdateQuestion(ctx context.Context, questionID uint, question *models.Question) (*models.Question, error)
	DeleteQuestion(ctx context.Context, questionID uint) error
	ReorderQuestions(ctx context.Context, surveyID uint, orderedIDs []uint) error

	// Public operations
	GetByToken(ctx context.Context, token string) (*models.Survey, error)
}

type CreateSurveyRequest struct {
	Title       string  `json:"title" validate:"required,max=500"`
	Description *string `json:"description"`

	Questions []models.Question `json:"questions"`
}

type UpdateSurveyRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=500"`
	Description *string `json:"description"`
}

type surveyService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSurveyService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, validator *validator.Validator) SurveyService {
	return &surveyService{
		repo:      repo,
		cache:     cacheService,
		logger:    logger,
		validator: validator,
	}
}

// ===== ADMIN OPERATIONS =====

func (s *surveyService) Create(ctx context.Context, req *CreateSurveyRequest) (*models.Survey, error) {
	s.logger.Info("Creating survey", "title", req.Title)

	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}
	for i := range req.Questions {
		if err := s.validator.Question().ValidateQuestion(&req.Questions[i]); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	token, err := s.uniqueSurveyToken(ctx)
	if err != nil {
		return nil, err
	}

	var survey *models.Survey
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		survey = &models.Survey{
			Title:       req.Title,
			Description: req.Description,
			SurveyToken: token,
		}
		if err := tx.Survey().Create(ctx, survey); err != nil {
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
		return nil, fmt.Errorf("failed to create survey: %w", err)
	}

	s.logger.Info("Survey created", "survey_id", survey.ID)
	return s.repo.Survey().GetByID(ctx, survey.ID)
}

func (s *surveyService) GetByID(ctx context.Context, id uint) (*models.Survey, error) {
	survey, err := s.repo.Survey().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	return survey, nil
}

func (s *surveyService) Update(ctx context.Context, id uint, req *UpdateSurveyRequest) (*models.Survey, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, validator.ToValidationErrors(err)
	}

	survey, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		survey.Title = *req.Title
	}
	if req.Description != nil {
		survey.Description = req.Description
	}

	if err := s.repo.Survey().Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *surveyService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Survey().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSurveyNotFound
		}
		return err
	}
	s.logger.Info("Survey deleted", "survey_id", id)
	return nil
}

func (s *surveyService) List(ctx context.Context, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	return s.repo.Survey().List(ctx, filters)
}

// ===== QUESTION AUTHORING =====

func (s *surveyService) AddQuestion(ctx context.Context, surveyID uint, question *models.Question) (*models.Question, error) {
	if _, err := s.GetByID(ctx, surveyID); err != nil {
		return nil, err
	}
	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, err
	}

	question.SurveyID = surveyID
	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, err
	}

	s.invalidateResults(ctx, surveyID)
	s.logger.Info("Question added", "survey_id", surveyID, "question_id", question.ID)
	return question, nil
}

func (s *surveyService) UpdateQuestion(ctx context.Context, questionID uint, question *models.Question) (*models.Question, error) {
	existing, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	existing.Type = question.Type
	existing.Text = question.Text
	existing.Options = question.Options
	existing.AllowOther = question.AllowOther
	existing.Required = question.Required

	if err := s.validator.Question().ValidateQuestion(existing); err != nil {
		return nil, err
	}
	if err := s.repo.Question().Update(ctx, existing); err != nil {
		return nil, err
	}

	s.invalidateResults(ctx, existing.SurveyID)
	return existing, nil
}

func (s *surveyService) DeleteQuestion(ctx context.Context, questionID uint) error {
	question, err := s.repo.Question().GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return err
	}
	if err := s.repo.Question().Delete(ctx, questionID); err != nil {
		return err
	}

	s.invalidateResults(ctx, question.SurveyID)
	return nil
}

func (s *surveyService) ReorderQuestions(ctx context.Context, surveyID uint, orderedIDs []uint) error {
	if err := s.repo.Question().Reorder(ctx, surveyID, orderedIDs); err != nil {
		return err
	}

	s.invalidateResults(ctx, surveyID)
	return nil
}

// ===== PUBLIC OPERATIONS =====

func (s *surveyService) GetByToken(ctx context.Context, token string) (*models.Survey, error) {
	survey, err := s.repo.Survey().GetByToken(ctx, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	return survey, nil
}

// invalidateResults drops cached aggregations after a question mutation.
func (s *surveyService) invalidateResults(ctx context.Context, surveyID uint) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("results:survey:%d:*", surveyID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.logger.Warn("Failed to invalidate results cache", "survey_id", surveyID, "error", err)
	}
}

func (s *surveyService) uniqueSurveyToken(ctx context.Context) (string, error) {
	for i := 0; i < 3; i++ {
		token, err := utils.GenerateToken()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.Survey().ExistsByToken(ctx, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique survey token")
}
