package ui

import (
	"errors"
	"net/http"

	"clubhouse/internal/auth"
	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/logging"
	"clubhouse/internal/middleware"
	"clubhouse/internal/models/dtos/requests"
	"clubhouse/internal/services"
)

// LoginPage handles GET /login; a live session skips straight to the landing page
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
		if session, err := h.sessions.GetSession(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, landingPath(session.Role), http.StatusSeeOther)
			return
		}
	}

	page := h.newPage(r, "Login")
	page.Flash = popFlash(w, r)
	page.Data = requests.LoginRequest{}
	h.render(w, http.StatusOK, "login.html", page)
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := requests.LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	session, err := h.auth.Login(r.Context(), form)
	if err != nil {
		page := h.newPage(r, "Login")
		page.Data = requests.LoginRequest{Username: form.Username}

		switch {
		case errors.Is(err, services.ErrValidation):
			page.Error = constants.MsgCredentialsRequired
			h.render(w, http.StatusUnprocessableEntity, "login.html", page)
		case errors.Is(err, services.ErrInvalidCredentials):
			page.Error = constants.MsgInvalidCredentials
			h.render(w, http.StatusUnauthorized, "login.html", page)
		default:
			logging.Error("Login failed", "ip", common.ClientIP(r), "error", err.Error())
			page.Error = constants.MsgGenericFailure
			h.render(w, http.StatusInternalServerError, "login.html", page)
		}
		return
	}

	middleware.SetSessionCookie(w, r, session)
	http.Redirect(w, r, landingPath(session.Role), http.StatusSeeOther)
}

// Logout handles POST /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims != nil {
		if err := h.auth.Logout(r.Context(), claims.SessionID()); err != nil {
			logging.Error("Failed to delete session", "username", claims.Username(), "error", err.Error())
		}
	}

	middleware.ClearSessionCookie(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RegisterPage handles GET /register
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r, "Become a member")
	page.Data = requests.RegisterMemberRequest{}
	h.render(w, http.StatusOK, "register.html", page)
}

// Register handles POST /register. The entry waits in the approval queue.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, middleware.MaxFormBytes)
	if err := parseForm(r); err != nil {
		page := h.newPage(r, "Become a member")
		page.Data = requests.RegisterMemberRequest{}
		page.Error = constants.MsgPhotoSize
		h.render(w, http.StatusRequestEntityTooLarge, "register.html", page)
		return
	}

	form := requests.RegisterMemberRequest{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Phone:    r.PostFormValue("phone"),
		Birthday: r.PostFormValue("birthday"),
	}

	page := h.newPage(r, "Become a member")
	// never echo the password back
	page.Data = requests.RegisterMemberRequest{
		Name:     form.Name,
		Email:    form.Email,
		Username: form.Username,
		Phone:    form.Phone,
		Birthday: form.Birthday,
	}

	photo, err := common.ReadPhoto(r, "photo")
	if err != nil {
		h.fail(w, r, "register.html", page, err)
		return
	}

	if _, err := h.members.Register(r.Context(), form, photo); err != nil {
		h.fail(w, r, "register.html", page, err)
		return
	}

	h.dashboard.Invalidate()
	redirect(w, r, "/login", constants.MsgRegistrationQueued)
}
