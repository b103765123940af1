package repositories

import (
	"context"

	"github.com/gatherline/rsvp-service/internal/models"
)

// SubmissionRepository interface for submission-specific operations
type SubmissionRepository interface {
	// Create persists a submission together with its answers.
	Create(ctx context.Context, submission *models.SurveySubmission) error
	GetByID(ctx context.Context, id uint) (*models.SurveySubmission, error)
	Update(ctx context.Context, submission *models.SurveySubmission) error
	Delete(ctx context.Context, id uint) error

	// ListBySurvey returns all submissions with answers preloaded, newest
	// first.
	ListBySurvey(ctx context.Context, surveyID uint) ([]*models.SurveySubmission, error)
	CountBySurvey(ctx context.Context, surveyID uint) (int64, error)

	// ReplaceAnswers swaps a submission's answer rows for the given set.
	ReplaceAnswers(ctx context.Context, submissionID uint, answers []models.QuestionResponse) error

	// ListAnswersByQuestion returns the raw answer blobs for one question
	// across all submissions, feed for the aggregation engine.
	ListAnswersByQuestion(ctx context.Context, questionID uint) ([]models.QuestionResponse, error)
}
