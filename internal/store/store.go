package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"spaces-community-backend/internal/apperr"
	"spaces-community-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	CreateScheduledSpace(ctx context.Context, space *model.ScheduledSpace) error
	GetScheduledSpace(ctx context.Context, id string) (*model.ScheduledSpace, error)
	ListScheduledSpaces(ctx context.Context) ([]model.ScheduledSpace, error)

	CreateReminder(ctx context.Context, reminder *model.SpaceReminder) error
	DueReminders(ctx context.Context, now time.Time, lookahead time.Duration) ([]model.SpaceReminder, error)
	MarkReminderSent(ctx context.Context, id string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreateScheduledSpace(ctx context.Context, space *model.ScheduledSpace) error {
	if err := s.db.WithContext(ctx).Create(space).Error; err != nil {
		return fmt.Errorf("failed to create scheduled space %s: %w", space.ID, err)
	}
	return nil
}

func (s *gormStore) GetScheduledSpace(ctx context.Context, id string) (*model.ScheduledSpace, error) {
	var space model.ScheduledSpace
	err := s.db.WithContext(ctx).First(&space, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("scheduled space %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scheduled space %s: %w", id, err)
	}
	return &space, nil
}

// ListScheduledSpaces returns all scheduled spaces ordered by start time.
func (s *gormStore) ListScheduledSpaces(ctx context.Context) ([]model.ScheduledSpace, error) {
	var spaces []model.ScheduledSpace
	err := s.db.WithContext(ctx).
		Order("scheduled_for ASC").
		Find(&spaces).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled spaces: %w", err)
	}
	return spaces, nil
}

func (s *gormStore) CreateReminder(ctx context.Context, reminder *model.SpaceReminder) error {
	if err := s.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("failed to create reminder for space %s: %w", reminder.SpaceID, err)
	}
	return nil
}

// DueReminders returns unsent reminders whose space starts within the
// lookahead window.
func (s *gormStore) DueReminders(ctx context.Context, now time.Time, lookahead time.Duration) ([]model.SpaceReminder, error) {
	var reminders []model.SpaceReminder
	err := s.db.WithContext(ctx).
		Where("reminder_sent = ? AND scheduled_for <= ?", false, now.Add(lookahead)).
		Order("scheduled_for ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	return reminders, nil
}

// MarkReminderSent flips reminder_sent to true. The guard on the current
// value keeps the transition one-way even when invocations overlap.
func (s *gormStore) MarkReminderSent(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).
		Model(&model.SpaceReminder{}).
		Where("id = ? AND reminder_sent = ?", id, false).
		Update("reminder_sent", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark reminder %s as sent: %w", id, err)
	}
	return nil
}
