package middleware

import (
	"net/http"
	"strings"

	"clubhouse/internal/auth"
	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/logging"
)

// MaxFormBytes caps request bodies; it leaves room above MaxPhotoBytes so an
// oversized photo still gets a readable error
const MaxFormBytes = 4 * constants.MaxPhotoBytes

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// CSRFMiddleware rejects state-changing requests whose token does not belong
// to the caller's session. Runs after the session middleware.
func CSRFMiddleware(signer *common.CSRFSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				http.Error(w, constants.MsgInvalidCSRF, http.StatusForbidden)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, MaxFormBytes)

			token := r.Header.Get(constants.CSRFHeaderName)
			if token == "" {
				if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
					_ = r.ParseMultipartForm(MaxFormBytes)
				}
				token = r.PostFormValue(constants.CSRFFieldName)
			}

			if err := signer.Verify(token, claims.SessionID()); err != nil {
				logging.Warn("CSRF check failed", "username", claims.Username(), "path", r.URL.Path, "error", err.Error())
				http.Error(w, constants.MsgInvalidCSRF, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
