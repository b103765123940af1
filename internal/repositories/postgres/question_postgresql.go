package postgres

import (
	"context"
	"fmt"

	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

// Create creates a question at the end of its survey's order
func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if question.Order == 0 {
			var maxOrder int
			err := tx.Model(&models.Question{}).
				Where("survey_id = ?", question.SurveyID).
				Select("COALESCE(MAX(display_order), 0)").
				Scan(&maxOrder).Error
			if err != nil {
				return fmt.Errorf("failed to determine question order: %w", err)
			}
			question.Order = maxOrder + 1
		}

		if err := tx.Create(question).Error; err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		return nil
	})
}

// CreateBatch creates questions preserving the given sequence as order
func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, question := range questions {
			if question.Order == 0 {
				question.Order = i + 1
			}
			if err := tx.Create(question).Error; err != nil {
				return fmt.Errorf("failed to create question %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a question by ID
func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// ListBySurvey returns the survey's questions in display order
func (q *QuestionPostgreSQL) ListBySurvey(ctx context.Context, surveyID uint) ([]models.Question, error) {
	var questions []models.Question
	err := q.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("display_order ASC, id ASC").
		Find(&questions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// Update updates a question
func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Save(question).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

// Delete removes a question. Existing answers keep their rows; they are
// dropped at read time when the question id no longer resolves.
func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := q.db.WithContext(ctx).Delete(&models.Question{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

// Reorder rewrites display order to match the given id sequence
func (q *QuestionPostgreSQL) Reorder(ctx context.Context, surveyID uint, orderedIDs []uint) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for position, id := range orderedIDs {
			result := tx.Model(&models.Question{}).
				Where("id = ? AND survey_id = ?", id, surveyID).
				Update("display_order", position+1)
			if result.Error != nil {
				return fmt.Errorf("failed to reorder question %d: %w", id, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("question %d does not belong to survey %d", id, surveyID)
			}
		}
		return nil
	})
}
