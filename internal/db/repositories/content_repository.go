package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	gormModels "clubhouse/internal/models/gorm"

	"gorm.io/gorm"
)

// AnnouncementRepository manages announcements with GORM
type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) WithTx(tx *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: tx}
}

// List returns announcements newest first; limit <= 0 means all
func (r *AnnouncementRepository) List(ctx context.Context, limit int) ([]gormModels.Announcement, error) {
	var items []gormModels.Announcement

	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return items, nil
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id uint) (*gormModels.Announcement, error) {
	var item gormModels.Announcement

	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("announcement %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch announcement: %w", err)
	}
	return &item, nil
}

func (r *AnnouncementRepository) Create(ctx context.Context, item *gormModels.Announcement) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

func (r *AnnouncementRepository) Update(ctx context.Context, item *gormModels.Announcement) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	return nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&gormModels.Announcement{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete announcement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("announcement %d: %w", id, ErrNotFound)
	}
	return nil
}

// EventRepository manages club events with GORM
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) WithTx(tx *gorm.DB) *EventRepository {
	return &EventRepository{db: tx}
}

// List returns all events in date order
func (r *EventRepository) List(ctx context.Context) ([]gormModels.Event, error) {
	var items []gormModels.Event

	if err := r.db.WithContext(ctx).Order("event_date ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return items, nil
}

// Upcoming returns events on or after from, soonest first
func (r *EventRepository) Upcoming(ctx context.Context, from time.Time, limit int) ([]gormModels.Event, error) {
	var items []gormModels.Event

	q := r.db.WithContext(ctx).
		Where("event_date >= ?", from).
		Order("event_date ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (*gormModels.Event, error) {
	var item gormModels.Event

	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}
	return &item, nil
}

func (r *EventRepository) Create(ctx context.Context, item *gormModels.Event) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *EventRepository) Update(ctx context.Context, item *gormModels.Event) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&gormModels.Event{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return nil
}
