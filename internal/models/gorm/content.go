package gorm

import "time"

type Announcement struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Title     string    `gorm:"column:title;size:200;not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	PostedBy  string    `gorm:"column:posted_by;size:50;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Announcement) TableName() string {
	return "announcements"
}

type Event struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title;size:200;not null"`
	Description string    `gorm:"column:description;type:text;not null"`
	EventDate   time.Time `gorm:"column:event_date;not null;index"`
	Location    string    `gorm:"column:location;size:200;not null"`
	PostedBy    string    `gorm:"column:posted_by;size:50;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}
