package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"clubhouse/internal/auth"
	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/db/repositories"
	"clubhouse/internal/logging"
	gormModels "clubhouse/internal/models/gorm"
)

// UserLookup resolves the account behind a session on every request
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*gormModels.User, error)
}

// SessionAuthMiddleware loads the session named by the cookie, reloads its
// user and stores the claims and a fresh CSRF token in the request context.
// Browsers without a valid session or a live account are sent to the login page.
func SessionAuthMiddleware(sessions *common.SessionService, signer *common.CSRFSigner, users UserLookup) func(http.Handler) http.Handler {
	return sessionAuth(sessions, signer, users, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}

// APISessionAuthMiddleware is the JSON flavour: it answers 401 instead of redirecting
func APISessionAuthMiddleware(sessions *common.SessionService, signer *common.CSRFSigner, users UserLookup) func(http.Handler) http.Handler {
	return sessionAuth(sessions, signer, users, func(w http.ResponseWriter, r *http.Request) {
		common.RespondError(w, time.Now(), nil, "Unauthorized. Please log in", http.StatusUnauthorized)
	})
}

func sessionAuth(sessions *common.SessionService, signer *common.CSRFSigner, users UserLookup, deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				deny(w, r)
				return
			}

			session, err := sessions.GetSession(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, common.ErrSessionNotFound) && !errors.Is(err, common.ErrSessionExpired) {
					logging.Error("Failed to load session", "error", err.Error())
				}
				ClearSessionCookie(w, r)
				deny(w, r)
				return
			}

			// role and username come from the current row, not the login snapshot
			user, err := users.GetByID(r.Context(), session.UserID)
			if err != nil {
				if !errors.Is(err, repositories.ErrNotFound) {
					logging.Error("Failed to load session user", "user_id", session.UserID, "error", err.Error())
					http.Error(w, constants.MsgGenericFailure, http.StatusInternalServerError)
					return
				}
				logging.Info("Session user no longer exists", "user_id", session.UserID)
				_ = sessions.DeleteSession(r.Context(), session.SessionID)
				ClearSessionCookie(w, r)
				deny(w, r)
				return
			}

			claims := &auth.SessionClaims{
				UserIDValue:   user.ID,
				UsernameValue: user.Username,
				RoleValue:     user.Role,
				SessionIDVal:  session.SessionID,
			}
			ctx := auth.SetUserClaims(r.Context(), claims)
			setRequestUser(ctx, user.Username)

			token, err := signer.Issue(session.SessionID)
			if err != nil {
				logging.Error("Failed to issue CSRF token", "error", err.Error())
			}
			ctx = auth.SetCSRFToken(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetSessionCookie hands the browser its session id
func SetSessionCookie(w http.ResponseWriter, r *http.Request, session *common.SessionData) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.SessionID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   common.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   common.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}
