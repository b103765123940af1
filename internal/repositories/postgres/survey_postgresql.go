package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"gorm.io/gorm"
)

type SurveyPostgreSQL struct {
	db *gorm.DB
}

func NewSurveyPostgreSQL(db *gorm.DB) repositories.SurveyRepository {
	return &SurveyPostgreSQL{db: db}
}

// Create creates a survey together with any inline questions
func (s *SurveyPostgreSQL) Create(ctx context.Context, survey *models.Survey) error {
	if err := s.db.WithContext(ctx).Create(survey).Error; err != nil {
		return fmt.Errorf("failed to create survey: %w", err)
	}
	return nil
}

// GetByID retrieves a survey with its questions in display order
func (s *SurveyPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		First(&survey, id).Error

	if err != nil {
		return nil, err
	}

	return &survey, nil
}

// GetByToken retrieves a survey by its public token
func (s *SurveyPostgreSQL) GetByToken(ctx context.Context, token string) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Where("survey_token = ?", token).
		First(&survey).Error

	if err != nil {
		return nil, err
	}

	return &survey, nil
}

// Update updates a survey
func (s *SurveyPostgreSQL) Update(ctx context.Context, survey *models.Survey) error {
	if err := s.db.WithContext(ctx).Save(survey).Error; err != nil {
		return fmt.Errorf("failed to update survey: %w", err)
	}
	return nil
}

// Delete removes a survey with its questions and submissions
func (s *SurveyPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Survey{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete survey: %w", err)
	}
	return nil
}

// List returns surveys matching the filters plus the unpaginated total.
func (s *SurveyPostgreSQL) List(ctx context.Context, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Survey{})

	if filters.Standalone != nil {
		if *filters.Standalone {
			query = query.Where("event_id IS NULL")
		} else {
			query = query.Where("event_id IS NOT NULL")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count surveys: %w", err)
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, map[string]bool{
		"created_at": true, "title": true,
	})
	query = applyPagination(query, filters.Limit, filters.Offset)

	var surveys []*models.Survey
	if err := query.Find(&surveys).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list surveys: %w", err)
	}

	return surveys, total, nil
}

// ExistsByToken checks token uniqueness before generating a new one
func (s *SurveyPostgreSQL) ExistsByToken(ctx context.Context, token string) (bool, error) {
	var survey models.Survey
	err := s.db.WithContext(ctx).
		Select("id").
		Where("survey_token = ?", token).
		First(&survey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check survey token: %w", err)
	}
	return true, nil
}
