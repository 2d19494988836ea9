package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "clubhouse/internal/models/gorm"

	"gorm.io/gorm"
)

const notificationBatchSize = 200

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

// CreateBatch inserts all notifications or returns the first error
func (r *NotificationRepository) CreateBatch(ctx context.Context, items []gormModels.Notification) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(items, notificationBatchSize).Error; err != nil {
		return fmt.Errorf("failed to store notifications: %w", err)
	}
	return nil
}

// ListByUsername returns a user's notifications newest first
func (r *NotificationRepository) ListByUsername(ctx context.Context, username string, limit int) ([]gormModels.Notification, error) {
	var items []gormModels.Notification

	q := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, username string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.Notification{}).
		Where("username = ? AND is_read = ?", username, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification as read; it only touches the owner's rows
func (r *NotificationRepository) MarkRead(ctx context.Context, id uint, username string) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Notification{}).
		Where("id = ? AND username = ?", id, username).
		Update("is_read", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, username string) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Notification{}).
		Where("username = ? AND is_read = ?", username, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// DeleteByUsername removes every notification addressed to username
func (r *NotificationRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	res := r.db.WithContext(ctx).Where("username = ?", username).Delete(&gormModels.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Rename moves a user's notifications to their new username
func (r *NotificationRepository) Rename(ctx context.Context, from, to string) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Notification{}).
		Where("username = ?", from).
		Update("username", to).Error
	if err != nil {
		return fmt.Errorf("failed to rename notification recipient: %w", err)
	}
	return nil
}

// DeleteReadBefore prunes read notifications created before cutoff
func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&gormModels.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune notifications: %w", res.Error)
	}
	return res.RowsAffected, nil
}
