package repositories

import (
	"context"

	"github.com/gatherline/rsvp-service/internal/models"
)

// SurveyRepository interface for survey-specific operations
type SurveyRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, survey *models.Survey) error
	GetByID(ctx context.Context, id uint) (*models.Survey, error)
	Update(ctx context.Context, survey *models.Survey) error
	Delete(ctx context.Context, id uint) error

	// Token lookup used by the public survey URL. Questions are preloaded
	// in display order.
	GetByToken(ctx context.Context, token string) (*models.Survey, error)

	// Query operations
	List(ctx context.Context, filters SurveyFilters) ([]*models.Survey, int64, error)

	// Validation helpers
	ExistsByToken(ctx context.Context, token string) (bool, error)
}

// QuestionRepository interface for question-specific operations
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	ListBySurvey(ctx context.Context, surveyID uint) ([]models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	// Reorder rewrites the display order of the survey's questions to match
	// the given id sequence.
	Reorder(ctx context.Context, surveyID uint, orderedIDs []uint) error
}
