package constants

// Dashboard counters. Written with ? placeholders; callers Rebind for the driver.
const (
	CountMembers = `
	SELECT COUNT(*) FROM users WHERE role = ?
	`

	CountPendingMembers = `
	SELECT COUNT(*) FROM pending_members
	`

	CountEquipmentUnits = `
	SELECT COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(available_quantity), 0) FROM equipment
	`

	CountRequestsByStatus = `
	SELECT COUNT(*) FROM equipment_requests WHERE status = ?
	`

	CountUpcomingEvents = `
	SELECT COUNT(*) FROM events WHERE event_date >= ?
	`

	CountAnnouncements = `
	SELECT COUNT(*) FROM announcements
	`
)
