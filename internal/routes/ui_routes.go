package routes

import (
	"net/http"

	"clubhouse/internal/api"
	"clubhouse/internal/middleware"
	"clubhouse/portal/ui"

	"github.com/go-chi/chi/v5"
)

// RegisterUIRoutes registers all server-rendered pages
func RegisterUIRoutes(r chi.Router, deps *api.Dependencies, loginLimiter *middleware.IPRateLimiter) {
	h := ui.NewHandler(deps.Services)

	sessionAuth := middleware.SessionAuthMiddleware(deps.Services.Session, deps.Services.CSRF, deps.Repo.Users)
	csrf := middleware.CSRFMiddleware(deps.Services.CSRF)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})

	// Public pages
	r.Group(func(public chi.Router) {
		public.Use(middleware.RateLimitMiddleware(loginLimiter))
		public.Get("/login", h.LoginPage)
		public.Post("/login", h.Login)
		public.Get("/register", h.RegisterPage)
		public.Post("/register", h.Register)
	})

	// Signed-in pages
	r.Group(func(signed chi.Router) {
		signed.Use(sessionAuth)
		signed.Use(csrf)

		signed.Post("/logout", h.Logout)

		signed.Get("/equipment", h.EquipmentPage)
		signed.Post("/equipment", h.EquipmentAction)
		signed.Get("/equipment/requests", h.RequestsPage)
		signed.Get("/equipment/{id}/photo", h.EquipmentPhoto)
		signed.Get("/events", h.EventsPage)
		signed.Get("/announcements", h.AnnouncementsPage)
		signed.Get("/notifications", h.NotificationsPage)
		signed.Post("/notifications", h.NotificationsAction)
		signed.Get("/members/{id}/photo", h.MemberPhoto)

		signed.Group(func(member chi.Router) {
			member.Use(middleware.IsMemberMiddleware())
			member.Get("/home", h.HomePage)
		})

		signed.Group(func(admin chi.Router) {
			admin.Use(middleware.IsAdminMiddleware())
			admin.Get("/dashboard", h.DashboardPage)
			admin.Post("/equipment/requests", h.RequestsAction)
			admin.Get("/equipment/export.xlsx", h.ExportInventory)
			admin.Get("/members", h.MembersPage)
			admin.Post("/members", h.MembersAction)
			admin.Get("/approvals", h.ApprovalsPage)
			admin.Post("/approvals", h.ApprovalsAction)
			admin.Post("/events", h.EventsAction)
			admin.Post("/announcements", h.AnnouncementsAction)
		})
	})
}
