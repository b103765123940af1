package repositories

import (
	"context"

	"github.com/gatherline/rsvp-service/internal/models"
)

// AdminRepository interface for admin account operations
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
}
