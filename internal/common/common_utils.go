package common

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// ClientIP is the peer address. Forwarded headers only count when the router
// runs RealIP, which rewrites RemoteAddr (without a port).
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// IsSecureRequest reports whether the client reached us over https
func IsSecureRequest(r *http.Request) bool {
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme == "https"
	}
	return r.TLS != nil
}
