package responses

import (
	gormModels "clubhouse/internal/models/gorm"
)

// DashboardStats feeds the admin dashboard tiles
type DashboardStats struct {
	Members          int64 `json:"members" db:"members"`
	Admins           int64 `json:"admins" db:"admins"`
	PendingMembers   int64 `json:"pending_members" db:"pending_members"`
	EquipmentItems   int64 `json:"equipment_items" db:"equipment_items"`
	EquipmentUnits   int64 `json:"equipment_units" db:"equipment_units"`
	UnitsAvailable   int64 `json:"units_available" db:"units_available"`
	PendingRequests  int64 `json:"pending_requests" db:"pending_requests"`
	ApprovedRequests int64 `json:"approved_requests" db:"approved_requests"`
	UpcomingEvents   int64 `json:"upcoming_events" db:"upcoming_events"`
	Announcements    int64 `json:"announcements" db:"announcements"`
}

// HomeView is the member landing page
type HomeView struct {
	Announcements []gormModels.Announcement
	Events        []gormModels.Event
	Unread        int64
}

type NotificationView struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	ItemID    *uint  `json:"item_id,omitempty"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type NotificationFeed struct {
	Unread int64              `json:"unread"`
	Items  []NotificationView `json:"items"`
}

func NewNotificationView(n gormModels.Notification) NotificationView {
	return NotificationView{
		ID:        n.ID,
		Type:      n.Type.String(),
		ItemID:    n.ItemID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
