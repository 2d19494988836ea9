package middleware

import (
	"net/http"

	"clubhouse/internal/auth"
	"clubhouse/internal/constants"
)

// IsMemberMiddleware guards member-only pages; admins land on the dashboard
func IsMemberMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())

			if claims == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if claims.Role() != constants.RoleUser {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
