package constants

import "time"

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixSession   CachePrefix = "session:"
	CachePrefixDashboard CachePrefix = "DASHBOARD_STATS"
)

const (
	SessionCookieName = "session_id"
	CSRFFieldName     = "csrf_token"
	CSRFHeaderName    = "X-CSRF-Token"
	FlashCookieName   = "flash"

	// MaxPhotoBytes bounds profile and equipment photos.
	MaxPhotoBytes = 2 * 1024 * 1024

	DashboardCacheTTL = 30 * time.Second
	CSRFTokenTTL      = 12 * time.Hour
)
