package gorm

import (
	"clubhouse/internal/constants"
	"time"
)

type Equipment struct {
	ID                uint   `gorm:"column:id;primaryKey"`
	Name              string `gorm:"column:name;size:100;not null"`
	Brand             string `gorm:"column:brand;size:100"`
	Model             string `gorm:"column:model;size:100"`
	Specifications    string `gorm:"column:specifications;type:text"`
	Quantity          int    `gorm:"column:quantity;not null"`
	AvailableQuantity int    `gorm:"column:available_quantity;not null"`
	Photo             `gorm:"embedded"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Equipment) TableName() string {
	return "equipment"
}

type EquipmentRequest struct {
	ID          uint                    `gorm:"column:id;primaryKey"`
	EquipmentID uint                    `gorm:"column:equipment_id;not null;index"`
	Username    string                  `gorm:"column:username;size:50;not null;index"`
	Quantity    int                     `gorm:"column:quantity;not null"`
	ReturnDate  *time.Time              `gorm:"column:return_date;type:date"`
	Status      constants.RequestStatus `gorm:"column:status;size:10;not null;default:pending;index"`
	DecidedBy   *string                 `gorm:"column:decided_by;size:50"`
	DecidedAt   *time.Time              `gorm:"column:decided_at"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Equipment Equipment `gorm:"foreignKey:EquipmentID;constraint:OnDelete:CASCADE"`
}

func (EquipmentRequest) TableName() string {
	return "equipment_requests"
}

// EquipmentStock is an equipment row plus the units held by pending requests.
// Pending requests do not touch available_quantity, but they do block new
// requests, so the shop shows Free() rather than the raw counter.
type EquipmentStock struct {
	Equipment       `gorm:"embedded"`
	PendingQuantity int `gorm:"column:pending_quantity"`
}

// Free is how many units a new request may still ask for.
func (s EquipmentStock) Free() int {
	free := s.AvailableQuantity - s.PendingQuantity
	if free < 0 {
		return 0
	}
	return free
}

func (s EquipmentStock) Available() bool {
	return s.Free() > 0
}

// OnLoan is the number of units out with approved requests.
func (s EquipmentStock) OnLoan() int {
	return s.Quantity - s.AvailableQuantity
}
