package middleware

import (
	"net/http"
	"sync"
	"time"

	"clubhouse/internal/common"
	"clubhouse/internal/constants"
	"clubhouse/internal/logging"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// a bucket idle this long has refilled completely
const limiterIdleTTL = 2 * time.Minute

// IPRateLimiter hands out one token bucket per client address
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
}

// NewIPRateLimiter allows perMinute requests per address, bursting up to perMinute
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &IPRateLimiter{
		limiters: cache.New(limiterIdleTTL, limiterIdleTTL),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *IPRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	// every hit pushes the expiry back
	l.limiters.SetDefault(ip, limiter)
	return limiter.(*rate.Limiter)
}

// Tracked returns how many addresses currently hold a bucket
func (l *IPRateLimiter) Tracked() int {
	return l.limiters.ItemCount()
}

func (l *IPRateLimiter) Allow(ip string) bool {
	return l.get(ip).Allow()
}

// RateLimitMiddleware throttles POSTs per client IP; page loads pass freely
func RateLimitMiddleware(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := common.ClientIP(r)
			if !limiter.Allow(ip) {
				logging.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
				http.Error(w, constants.MsgTooManyAttempts, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
