package postgres

import (
	"context"
	"fmt"

	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"gorm.io/gorm"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

// Create persists a submission together with its answer rows
func (s *SubmissionPostgreSQL) Create(ctx context.Context, submission *models.SurveySubmission) error {
	if err := s.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission with its answers
func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.SurveySubmission, error) {
	var submission models.SurveySubmission
	err := s.db.WithContext(ctx).
		Preload("Answers").
		First(&submission, id).Error

	if err != nil {
		return nil, err
	}

	return &submission, nil
}

// Update updates a submission's own columns. Answer rows are replaced
// separately via ReplaceAnswers.
func (s *SubmissionPostgreSQL) Update(ctx context.Context, submission *models.SurveySubmission) error {
	err := s.db.WithContext(ctx).
		Omit("Answers").
		Save(submission).Error
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	return nil
}

// Delete removes a submission with its answers
func (s *SubmissionPostgreSQL) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", id).Delete(&models.QuestionResponse{}).Error; err != nil {
			return fmt.Errorf("failed to delete submission answers: %w", err)
		}
		if err := tx.Delete(&models.SurveySubmission{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete submission: %w", err)
		}
		return nil
	})
}

// ListBySurvey returns all submissions with answers, newest first
func (s *SubmissionPostgreSQL) ListBySurvey(ctx context.Context, surveyID uint) ([]*models.SurveySubmission, error) {
	var submissions []*models.SurveySubmission
	err := s.db.WithContext(ctx).
		Preload("Answers").
		Where("survey_id = ?", surveyID).
		Order("submitted_at DESC, id DESC").
		Find(&submissions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// CountBySurvey returns the submission count for a survey
func (s *SubmissionPostgreSQL) CountBySurvey(ctx context.Context, surveyID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.SurveySubmission{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

// ReplaceAnswers swaps the submission's answer rows for the given set
func (s *SubmissionPostgreSQL) ReplaceAnswers(ctx context.Context, submissionID uint, answers []models.QuestionResponse) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", submissionID).Delete(&models.QuestionResponse{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous answers: %w", err)
		}
		for i := range answers {
			answers[i].ID = 0
			answers[i].SubmissionID = submissionID
		}
		if len(answers) == 0 {
			return nil
		}
		if err := tx.Create(&answers).Error; err != nil {
			return fmt.Errorf("failed to write answers: %w", err)
		}
		return nil
	})
}

// ListAnswersByQuestion returns every stored answer for one question
func (s *SubmissionPostgreSQL) ListAnswersByQuestion(ctx context.Context, questionID uint) ([]models.QuestionResponse, error) {
	var answers []models.QuestionResponse
	err := s.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("id ASC").
		Find(&answers).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, nil
}
