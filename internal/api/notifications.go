package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"clubhouse/internal/auth"
	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/services"

	"github.com/go-chi/chi/v5"
)

type NotificationsHandler struct {
	notifications *services.NotificationService
}

func NewNotificationsHandler(notifications *services.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// Feed handles GET /api/notifications
func (h *NotificationsHandler) Feed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims := auth.GetUserClaims(r.Context())

	feed, err := h.notifications.Feed(r.Context(), claims.Username())
	if err != nil {
		common.RespondError(w, start, err, constants.MsgGenericFailure)
		return
	}

	common.RespondSuccess(w, start, "", feed)
}

// MarkRead handles POST /api/notifications/{id}/read; id "all" clears the feed
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims := auth.GetUserClaims(r.Context())
	param := chi.URLParam(r, "id")

	if param == "all" {
		if err := h.notifications.MarkAllRead(r.Context(), claims.Username()); err != nil {
			common.RespondError(w, start, err, constants.MsgGenericFailure)
			return
		}
		common.RespondSuccess(w, start, "All notifications marked as read", nil)
		return
	}

	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil || id == 0 {
		common.RespondError(w, start, err, constants.MsgInvalidID, http.StatusBadRequest)
		return
	}

	if err := h.notifications.MarkRead(r.Context(), claims.Username(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			common.RespondError(w, start, err, constants.MsgNotFound, http.StatusNotFound)
			return
		}
		common.RespondError(w, start, err, constants.MsgGenericFailure)
		return
	}

	common.RespondSuccess(w, start, "Notification marked as read", nil)
}
