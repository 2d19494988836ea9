package ui

import (
	"net/http"

	"clubhouse/internal/auth"
	"clubhouse/internal/constants"
)

// NotificationsPage handles GET /notifications
func (h *Handler) NotificationsPage(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r, "Notifications")
	page.Flash = popFlash(w, r)
	h.renderNotifications(w, r, http.StatusOK, page)
}

func (h *Handler) renderNotifications(w http.ResponseWriter, r *http.Request, status int, page *Page) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	feed, err := h.notifications.Feed(r.Context(), claims.Username())
	if err != nil {
		msg, _, code := h.failure(r, err)
		page.Error = msg
		status = code
	}
	page.Data = feed
	h.render(w, status, "notifications.html", page)
}

// NotificationsAction handles POST /notifications: read one or read all
func (h *Handler) NotificationsAction(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := parseForm(r); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	page := h.newPage(r, "Notifications")

	var err error
	switch r.PostFormValue("action") {
	case "read":
		err = h.notifications.MarkRead(r.Context(), claims.Username(), formUint(r, "id"))
	case "read_all":
		err = h.notifications.MarkAllRead(r.Context(), claims.Username())
	default:
		page.Error = constants.MsgUnknownAction
		h.renderNotifications(w, r, http.StatusBadRequest, page)
		return
	}

	if err != nil {
		msg, _, status := h.failure(r, err)
		page.Error = msg
		h.renderNotifications(w, r, status, page)
		return
	}

	redirect(w, r, "/notifications", constants.MsgNotificationsRead)
}
