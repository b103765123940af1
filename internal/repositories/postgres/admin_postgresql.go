package postgres

import (
	"context"
	"fmt"

	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"gorm.io/gorm"
)

type AdminPostgreSQL struct {
	db *gorm.DB
}

func NewAdminPostgreSQL(db *gorm.DB) repositories.AdminRepository {
	return &AdminPostgreSQL{db: db}
}

// Create creates an admin account
func (a *AdminPostgreSQL) Create(ctx context.Context, admin *models.Admin) error {
	if err := a.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// GetByID retrieves an admin by ID
func (a *AdminPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := a.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByUsername retrieves an admin by username
func (a *AdminPostgreSQL) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	err := a.db.WithContext(ctx).
		Where("username = ?", username).
		First(&admin).Error

	if err != nil {
		return nil, err
	}
	return &admin, nil
}
