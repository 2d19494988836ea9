package gorm

import (
	"clubhouse/internal/constants"
	"time"
)

// Photo is an optional base64 image stored next to its owning record
type Photo struct {
	PhotoMIME string `gorm:"column:photo_mime;size:20"`
	PhotoData string `gorm:"column:photo_data;type:text"`
}

// HasPhoto only looks at the MIME column; listings skip photo_data.
func (p Photo) HasPhoto() bool {
	return p.PhotoMIME != ""
}

type User struct {
	ID           uint           `gorm:"column:id;primaryKey"`
	Username     string         `gorm:"column:username;size:50;uniqueIndex;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         constants.Role `gorm:"column:role;size:10;not null;default:user"`
	Name         string         `gorm:"column:name;size:100"`
	Email        string         `gorm:"column:email;size:255;uniqueIndex"`
	Phone        string         `gorm:"column:phone;size:30"`
	Birthday     *time.Time     `gorm:"column:birthday;type:date"`
	Photo        `gorm:"embedded"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}

// PendingMember is a self-registration waiting for admin approval.
type PendingMember struct {
	ID           uint       `gorm:"column:id;primaryKey"`
	Username     string     `gorm:"column:username;size:50;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Name         string     `gorm:"column:name;size:100"`
	Email        string     `gorm:"column:email;size:255;uniqueIndex"`
	Phone        string     `gorm:"column:phone;size:30"`
	Birthday     *time.Time `gorm:"column:birthday;type:date"`
	Photo        `gorm:"embedded"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PendingMember) TableName() string {
	return "pending_members"
}
