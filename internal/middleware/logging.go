package middleware

import (
	"net/http"
	"runtime/debug"

	"clubhouse/internal/constants"
	"clubhouse/internal/logging"
)

// Recoverer turns a handler panic into a logged 500
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.Error("Handler panic",
					"request_id", GetRequestID(r.Context()),
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				http.Error(w, constants.MsgGenericFailure, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
