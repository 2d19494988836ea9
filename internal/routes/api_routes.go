package routes

import (
	"clubhouse/internal/api"
	"clubhouse/internal/constants"
	"clubhouse/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RegisterAPIRoutes registers the JSON endpoints used by the portal's scripts
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {
	notifications := api.NewNotificationsHandler(deps.Services.Notifications)

	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:8080"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", constants.CSRFHeaderName},
			AllowCredentials: true,
			MaxAge:           300, // Maximum value not ignored by any of major browsers
		}))
		apiRouter.Use(middleware.APISessionAuthMiddleware(deps.Services.Session, deps.Services.CSRF, deps.Repo.Users))
		apiRouter.Use(middleware.CSRFMiddleware(deps.Services.CSRF))

		apiRouter.Get("/notifications", notifications.Feed)
		apiRouter.Post("/notifications/{id}/read", notifications.MarkRead)
	})
}
