package gorm

// All lists every model managed by migrations, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&PendingMember{},
		&Equipment{},
		&EquipmentRequest{},
		&Announcement{},
		&Event{},
		&Notification{},
	}
}
