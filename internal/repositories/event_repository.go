package repositories

import (
	"context"

	"github.com/gatherline/rsvp-service/internal/models"
)

// EventRepository interface for event-specific operations
type EventRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error

	// Token lookup used by the public invitation URL. Questions of the
	// owned survey are preloaded in display order.
	GetByInvitationToken(ctx context.Context, token string) (*models.Event, error)

	// Query operations
	List(ctx context.Context, filters EventFilters) ([]*models.Event, int64, error)

	// Validation helpers
	ExistsByInvitationToken(ctx context.Context, token string) (bool, error)
}
