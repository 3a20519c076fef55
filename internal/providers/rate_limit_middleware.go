package providers

import (
	"betcodes/internal/structures"
	"golang.org/x/time/rate"
	"net/http"
	"time"
)

// NewWatchAdLimiter returns nil when throttling is switched off.
func NewWatchAdLimiter(conf *structures.Config) *rate.Limiter {
	perMinute := conf.RateLimit.WatchAdPerMinute
	if perMinute <= 0 {
		return nil
	}
	burst := max(conf.RateLimit.Burst, 1)
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

func RateLimitMiddleware(limiter *rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "10")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
