package gorm

import (
	"clubhouse/internal/constants"
	"time"
)

type Notification struct {
	ID        uint                       `gorm:"column:id;primaryKey"`
	Username  string                     `gorm:"column:username;size:50;not null;index"`
	Type      constants.NotificationType `gorm:"column:type;size:30;not null"`
	ItemID    *uint                      `gorm:"column:item_id"`
	Message   string                     `gorm:"column:message;size:500;not null"`
	IsRead    bool                       `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
