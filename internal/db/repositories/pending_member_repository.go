package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "clubhouse/internal/models/gorm"

	"gorm.io/gorm"
)

// PendingMemberRepository manages the registration approval queue
type PendingMemberRepository struct {
	db *gorm.DB
}

func NewPendingMemberRepository(db *gorm.DB) *PendingMemberRepository {
	return &PendingMemberRepository{db: db}
}

func (r *PendingMemberRepository) WithTx(tx *gorm.DB) *PendingMemberRepository {
	return &PendingMemberRepository{db: tx}
}

// List returns the queue oldest first
func (r *PendingMemberRepository) List(ctx context.Context) ([]gormModels.PendingMember, error) {
	var pending []gormModels.PendingMember

	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending members: %w", err)
	}
	return pending, nil
}

func (r *PendingMemberRepository) GetByID(ctx context.Context, id uint) (*gormModels.PendingMember, error) {
	var pending gormModels.PendingMember

	err := r.db.WithContext(ctx).First(&pending, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pending member %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch pending member: %w", err)
	}
	return &pending, nil
}

func (r *PendingMemberRepository) UsernameQueued(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *PendingMemberRepository) EmailQueued(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *PendingMemberRepository) exists(ctx context.Context, cond string, value string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.PendingMember{}).
		Where(cond, value).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check pending queue: %w", err)
	}
	return count > 0, nil
}

func (r *PendingMemberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&gormModels.PendingMember{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending members: %w", err)
	}
	return count, nil
}

func (r *PendingMemberRepository) Create(ctx context.Context, pending *gormModels.PendingMember) error {
	if err := r.db.WithContext(ctx).Create(pending).Error; err != nil {
		return wrapWriteErr("failed to queue member", err)
	}
	return nil
}

// Delete removes a queue entry; deleting a missing entry reports ErrNotFound
func (r *PendingMemberRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&gormModels.PendingMember{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete pending member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pending member %d: %w", id, ErrNotFound)
	}
	return nil
}
