package ui

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"clubhouse/internal/api"
	"clubhouse/internal/auth"
	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/logging"
	"clubhouse/internal/middleware"
	"clubhouse/internal/services"

	"github.com/go-chi/chi/v5"
)

// Handler serves every HTML page of the portal
type Handler struct {
	sessions      *common.SessionService
	auth          *services.AuthService
	members       *services.MemberService
	equipment     *services.EquipmentService
	content       *services.ContentService
	notifications *services.NotificationService
	dashboard     *services.DashboardService
	export        *services.ExportService
	renderer      *Renderer
}

func NewHandler(svcs *api.Services) *Handler {
	renderer, err := NewRenderer()
	if err != nil {
		// templates are embedded, so this only fails on a broken build
		panic("failed to load templates: " + err.Error())
	}

	return &Handler{
		sessions:      svcs.Session,
		auth:          svcs.Auth,
		members:       svcs.Members,
		equipment:     svcs.Equipment,
		content:       svcs.Content,
		notifications: svcs.Notifications,
		dashboard:     svcs.Dashboard,
		export:        svcs.Export,
		renderer:      renderer,
	}
}

// newPage fills the per-request fields every layout needs
func (h *Handler) newPage(r *http.Request, title string) *Page {
	return &Page{
		Title:     title,
		User:      auth.GetUserClaims(r.Context()),
		CSRFToken: auth.GetCSRFToken(r.Context()),
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, page *Page) {
	h.renderer.Render(w, status, name, page)
}

// redirect finishes a successful form post
func redirect(w http.ResponseWriter, r *http.Request, to, flash string) {
	if flash != "" {
		setFlash(w, flash)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func landingPath(role constants.Role) string {
	if role == constants.RoleAdmin {
		return "/dashboard"
	}
	return "/home"
}

func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the one-shot message left by the last redirect
func popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(constants.FlashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: constants.FlashCookieName, Path: "/", MaxAge: -1})

	msg, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(msg)
}

// failure maps a service error to the inline message and status of a re-rendered form
func (h *Handler) failure(r *http.Request, err error) (string, map[string]string, int) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return verr.Summary(), verr.Fields, http.StatusUnprocessableEntity
	}
	if msg, ok := services.UserMessage(err); ok {
		return msg, nil, http.StatusConflict
	}

	switch {
	case errors.Is(err, services.ErrInsufficientStock):
		return constants.MsgInsufficientStock, nil, http.StatusConflict
	case errors.Is(err, services.ErrInvalidState):
		return constants.MsgRequestDecided, nil, http.StatusConflict
	case errors.Is(err, services.ErrNotFound):
		return constants.MsgNotFound, nil, http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return constants.MsgForbidden, nil, http.StatusForbidden
	case errors.Is(err, common.ErrPhotoType):
		return constants.MsgPhotoType, map[string]string{"photo": constants.MsgPhotoType}, http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrPhotoTooLarge):
		return constants.MsgPhotoSize, map[string]string{"photo": constants.MsgPhotoSize}, http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrPhotoUnreadable):
		return constants.MsgPhotoUnreadable, map[string]string{"photo": constants.MsgPhotoUnreadable}, http.StatusUnprocessableEntity
	}

	username := ""
	if claims := auth.GetUserClaims(r.Context()); claims != nil {
		username = claims.Username()
	}
	logging.WithRequest(middleware.GetRequestID(r.Context()), username, r.URL.Path).
		Errorw("Request failed", "action", r.PostFormValue("action"), "error", err.Error())
	return constants.MsgGenericFailure, nil, http.StatusInternalServerError
}

// fail re-renders page with the mapped error
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, name string, page *Page, err error) {
	msg, fields, status := h.failure(r, err)
	page.Error = msg
	page.Fields = fields
	h.render(w, status, name, page)
}

// parseForm reads urlencoded and multipart bodies alike
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if r.MultipartForm != nil {
			return nil
		}
		return r.ParseMultipartForm(middleware.MaxFormBytes)
	}
	return r.ParseForm()
}

func formUint(r *http.Request, key string) uint {
	v, err := strconv.ParseUint(strings.TrimSpace(r.PostFormValue(key)), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// formInt returns -1 for missing or malformed input so range checks reject it
func formInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue(key)))
	if err != nil {
		return -1
	}
	return v
}

func formBool(r *http.Request, key string) bool {
	v := r.PostFormValue(key)
	return v == "1" || v == "on" || v == "true"
}

func queryUint(r *http.Request, key string) uint {
	v, err := strconv.ParseUint(r.URL.Query().Get(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

func urlUint(r *http.Request, key string) uint {
	v, err := strconv.ParseUint(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// writePhoto streams a stored image
func writePhoto(w http.ResponseWriter, r *http.Request, mime, data string) {
	raw, err := common.DecodePhoto(data)
	if err != nil {
		logging.Error("Stored photo is corrupt", "path", r.URL.Path, "error", err.Error())
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = w.Write(raw)
}
