package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates all entity repositories behind one handle so
// services can take a single dependency.
type Repository interface {
	Event() EventRepository
	Survey() SurveyRepository
	Question() QuestionRepository
	Submission() SubmissionRepository
	Admin() AdminRepository

	// WithTransaction runs fn against a Repository bound to one database
	// transaction. The transaction commits when fn returns nil.
	WithTransaction(ctx context.Context, fn func(Repository) error) error
}

// IsNotFoundError reports whether err means the requested row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type EventFilters struct {
	CreatedBy *uint  `json:"created_by"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "date", "title"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type SurveyFilters struct {
	Standalone *bool  `json:"standalone"` // true: only surveys without an owning event
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
	SortBy     string `json:"sort_by"`
	SortOrder  string `json:"sort_order"`
}
