package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubhouse/internal/constants"
	gormModels "clubhouse/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EquipmentRequestRepository struct {
	db *gorm.DB
}

func NewEquipmentRequestRepository(db *gorm.DB) *EquipmentRequestRepository {
	return &EquipmentRequestRepository{db: db}
}

func (r *EquipmentRequestRepository) WithTx(tx *gorm.DB) *EquipmentRequestRepository {
	return &EquipmentRequestRepository{db: tx}
}

func withEquipment(db *gorm.DB) *gorm.DB {
	return db.Omit("photo_data")
}

func (r *EquipmentRequestRepository) Create(ctx context.Context, req *gormModels.EquipmentRequest) error {
	// don't let GORM upsert the association
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create equipment request: %w", err)
	}
	return nil
}

// GetByID loads a request with its equipment (no photo)
func (r *EquipmentRequestRepository) GetByID(ctx context.Context, id uint) (*gormModels.EquipmentRequest, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate loads and locks the request row inside a transaction
func (r *EquipmentRequestRepository) GetForUpdate(ctx context.Context, id uint) (*gormModels.EquipmentRequest, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *EquipmentRequestRepository) get(q *gorm.DB, id uint) (*gormModels.EquipmentRequest, error) {
	var req gormModels.EquipmentRequest

	err := q.Preload("Equipment", withEquipment).First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("equipment request %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch equipment request: %w", err)
	}
	return &req, nil
}

// List returns requests newest first. An empty username lists everyone's.
func (r *EquipmentRequestRepository) List(ctx context.Context, username string) ([]gormModels.EquipmentRequest, error) {
	var reqs []gormModels.EquipmentRequest

	q := r.db.WithContext(ctx).Preload("Equipment", withEquipment)
	if username != "" {
		q = q.Where("username = ?", username)
	}
	if err := q.Order("created_at DESC, id DESC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list equipment requests: %w", err)
	}
	return reqs, nil
}

// Decide moves a pending request to a terminal status. It returns false when
// the request was no longer pending, so a decision is applied exactly once.
func (r *EquipmentRequestRepository) Decide(ctx context.Context, id uint, status constants.RequestStatus, decidedBy string) (bool, error) {
	now := time.Now()

	res := r.db.WithContext(ctx).
		Model(&gormModels.EquipmentRequest{}).
		Where("id = ? AND status = ?", id, constants.RequestPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": now,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update request status: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// DeleteByUsername drops a member's request history
func (r *EquipmentRequestRepository) DeleteByUsername(ctx context.Context, username string) error {
	if err := r.db.WithContext(ctx).Where("username = ?", username).Delete(&gormModels.EquipmentRequest{}).Error; err != nil {
		return fmt.Errorf("failed to delete member requests: %w", err)
	}
	return nil
}

// Rename moves a member's request history to their new username
func (r *EquipmentRequestRepository) Rename(ctx context.Context, from, to string) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.EquipmentRequest{}).
		Where("username = ?", from).
		Update("username", to).Error
	if err != nil {
		return fmt.Errorf("failed to rename request owner: %w", err)
	}
	return nil
}

// CountActiveByUsername counts a member's pending or approved requests
func (r *EquipmentRequestRepository) CountActiveByUsername(ctx context.Context, username string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.EquipmentRequest{}).
		Where("username = ? AND status IN ?", username, constants.ActiveRequestStatuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count member requests: %w", err)
	}
	return count, nil
}
