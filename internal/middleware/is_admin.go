package middleware

import (
	"net/http"

	"clubhouse/internal/auth"
	"clubhouse/internal/constants"
)

// IsAdminMiddleware lets admins through and sends members to their home page
func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())

			if claims == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if claims.Role() != constants.RoleAdmin {
				http.Redirect(w, r, "/home", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
