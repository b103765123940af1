package postgres

import (
	"context"

	"github.com/gatherline/rsvp-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db         *gorm.DB
	event      repositories.EventRepository
	survey     repositories.SurveyRepository
	question   repositories.QuestionRepository
	submission repositories.SubmissionRepository
	admin      repositories.AdminRepository
}

// New builds the PostgreSQL-backed Repository aggregate.
func New(db *gorm.DB) repositories.Repository {
	return &repository{
		db:         db,
		event:      NewEventPostgreSQL(db),
		survey:     NewSurveyPostgreSQL(db),
		question:   NewQuestionPostgreSQL(db),
		submission: NewSubmissionPostgreSQL(db),
		admin:      NewAdminPostgreSQL(db),
	}
}

func (r *repository) Event() repositories.EventRepository           { return r.event }
func (r *repository) Survey() repositories.SurveyRepository         { return r.survey }
func (r *repository) Question() repositories.QuestionRepository     { return r.question }
func (r *repository) Submission() repositories.SubmissionRepository { return r.submission }
func (r *repository) Admin() repositories.AdminRepository           { return r.admin }

func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
