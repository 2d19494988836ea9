package ui

import (
	"net/http"

	"clubhouse/internal/auth"
	"clubhouse/internal/constants"
)

// DashboardPage handles GET /dashboard (admin)
func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r, "Dashboard")
	page.Flash = popFlash(w, r)

	stats, err := h.dashboard.AdminStats(r.Context())
	if err != nil {
		h.fail(w, r, "dashboard.html", page, err)
		return
	}
	page.Data = stats
	h.render(w, http.StatusOK, "dashboard.html", page)
}

// HomePage handles GET /home (member)
func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	page := h.newPage(r, "Home")
	page.Flash = popFlash(w, r)

	view, err := h.dashboard.Home(r.Context(), claims.Username())
	if err != nil {
		h.fail(w, r, "home.html", page, err)
		return
	}
	page.Data = view
	h.render(w, http.StatusOK, "home.html", page)
}

// forbidden renders a plain refusal for role-restricted actions
func forbidden(w http.ResponseWriter) {
	http.Error(w, constants.MsgForbidden, http.StatusForbidden)
}
