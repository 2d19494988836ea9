package repositories

import (
	"context"
	"errors"
	"fmt"

	"clubhouse/internal/constants"
	gormModels "clubhouse/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stockColumns skips photo_data; listings only need to know a photo exists
const stockColumns = `equipment.id, equipment.name, equipment.brand, equipment.model,
	equipment.specifications, equipment.quantity, equipment.available_quantity,
	equipment.photo_mime, equipment.created_at, equipment.updated_at,
	COALESCE((SELECT SUM(r.quantity) FROM equipment_requests r
		WHERE r.equipment_id = equipment.id AND r.status = ?), 0) AS pending_quantity`

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) WithTx(tx *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: tx}
}

// ListStock returns every item with its pending hold, ordered by name
func (r *EquipmentRepository) ListStock(ctx context.Context) ([]gormModels.EquipmentStock, error) {
	var rows []gormModels.EquipmentStock

	err := r.db.WithContext(ctx).
		Table("equipment").
		Select(stockColumns, constants.RequestPending).
		Order("equipment.name ASC, equipment.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return rows, nil
}

// GetStock returns a single item with its pending hold
func (r *EquipmentRepository) GetStock(ctx context.Context, id uint) (*gormModels.EquipmentStock, error) {
	var rows []gormModels.EquipmentStock

	err := r.db.WithContext(ctx).
		Table("equipment").
		Select(stockColumns, constants.RequestPending).
		Where("equipment.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch equipment: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("equipment %d: %w", id, ErrNotFound)
	}
	return &rows[0], nil
}

// GetByID loads the full row, photo included
func (r *EquipmentRepository) GetByID(ctx context.Context, id uint) (*gormModels.Equipment, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate loads the row with a write lock (SELECT ... FOR UPDATE).
// Only meaningful inside a transaction; sqlite ignores the lock clause.
func (r *EquipmentRepository) GetForUpdate(ctx context.Context, id uint) (*gormModels.Equipment, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *EquipmentRepository) get(q *gorm.DB, id uint) (*gormModels.Equipment, error) {
	var item gormModels.Equipment

	if err := q.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("equipment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch equipment: %w", err)
	}
	return &item, nil
}

func (r *EquipmentRepository) Create(ctx context.Context, item *gormModels.Equipment) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}
	return nil
}

func (r *EquipmentRepository) Update(ctx context.Context, item *gormModels.Equipment) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	return nil
}

// Delete removes the item; its remaining (denied) requests cascade
func (r *EquipmentRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	// sqlite only cascades with PRAGMA foreign_keys, so clear history explicitly
	if err := db.Where("equipment_id = ?", id).Delete(&gormModels.EquipmentRequest{}).Error; err != nil {
		return fmt.Errorf("failed to delete equipment history: %w", err)
	}

	res := db.Delete(&gormModels.Equipment{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete equipment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("equipment %d: %w", id, ErrNotFound)
	}
	return nil
}

// TakeStock atomically decrements available_quantity by qty if enough units
// remain. It returns false (and changes nothing) when stock is short.
func (r *EquipmentRepository) TakeStock(ctx context.Context, id uint, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Equipment{}).
		Where("id = ? AND available_quantity >= ?", id, qty).
		Update("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if res.Error != nil {
		return false, fmt.Errorf("failed to take stock: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// HeldQuantity sums request quantities for the item in the given status
func (r *EquipmentRepository) HeldQuantity(ctx context.Context, id uint, status constants.RequestStatus) (int, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.EquipmentRequest{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("equipment_id = ? AND status = ?", id, status).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum held quantity: %w", err)
	}
	return int(total), nil
}

// CountActiveRequests counts pending or approved requests for the item
func (r *EquipmentRepository) CountActiveRequests(ctx context.Context, id uint) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.EquipmentRequest{}).
		Where("equipment_id = ? AND status IN ?", id, constants.ActiveRequestStatuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active requests: %w", err)
	}
	return count, nil
}
