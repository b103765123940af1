package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherline/rsvp-service/internal/models"
	"github.com/gatherline/rsvp-service/internal/repositories"
	"gorm.io/gorm"
)

type EventPostgreSQL struct {
	db *gorm.DB
}

func NewEventPostgreSQL(db *gorm.DB) repositories.EventRepository {
	return &EventPostgreSQL{db: db}
}

// Create creates an event. The owned survey must already exist.
func (e *EventPostgreSQL) Create(ctx context.Context, event *models.Event) error {
	if err := e.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (e *EventPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := e.db.WithContext(ctx).
		Preload("Survey").
		Preload("Survey.Questions", orderedQuestions).
		First(&event, id).Error

	if err != nil {
		return nil, err
	}

	return &event, nil
}

// GetByInvitationToken retrieves an event by its public invitation token
func (e *EventPostgreSQL) GetByInvitationToken(ctx context.Context, token string) (*models.Event, error) {
	var event models.Event
	err := e.db.WithContext(ctx).
		Preload("Survey").
		Preload("Survey.Questions", orderedQuestions).
		Where("invitation_token = ?", token).
		First(&event).Error

	if err != nil {
		return nil, err
	}

	return &event, nil
}

// Update updates an event
func (e *EventPostgreSQL) Update(ctx context.Context, event *models.Event) error {
	if err := e.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// Delete removes an event. The owned survey and its submissions go with it.
func (e *EventPostgreSQL) Delete(ctx context.Context, id uint) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, id).Error; err != nil {
			return fmt.Errorf("event not found: %w", err)
		}

		if err := tx.Delete(&models.Event{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		if err := tx.Delete(&models.Survey{}, event.SurveyID).Error; err != nil {
			return fmt.Errorf("failed to delete owned survey: %w", err)
		}
		return nil
	})
}

// List returns events matching the filters plus the unpaginated total.
func (e *EventPostgreSQL) List(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	query := e.db.WithContext(ctx).Model(&models.Event{})

	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, map[string]bool{
		"created_at": true, "date": true, "title": true,
	})
	query = applyPagination(query, filters.Limit, filters.Offset)

	var events []*models.Event
	if err := query.Preload("Survey").Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	return events, total, nil
}

// ExistsByInvitationToken checks token uniqueness before generating a new one
func (e *EventPostgreSQL) ExistsByInvitationToken(ctx context.Context, token string) (bool, error) {
	var event models.Event
	err := e.db.WithContext(ctx).
		Select("id").
		Where("invitation_token = ?", token).
		First(&event).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check invitation token: %w", err)
	}
	return true, nil
}
