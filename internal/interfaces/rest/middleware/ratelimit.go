package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/DanielPopoola/notes-checkout/internal/interfaces/rest"
)

const RateLimitMessage = "Too many requests from this IP, please try again later."

// RateLimitStore counts hits for a key inside the current window.
type RateLimitStore interface {
	Increment(ctx context.Context, key string) (int, time.Time, error)
}

// RateLimit allows limit requests per client IP per store window. Rejected
// requests never reach next. A failing store lets the request through.
func RateLimit(store RateLimitStore, limit int, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)

			count, reset, err := store.Increment(r.Context(), ip)
			if err != nil {
				logger.Error("rate limit store unavailable", "ip", ip, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			seconds := int(math.Ceil(time.Until(reset).Seconds()))
			if seconds < 0 {
				seconds = 0
			}

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(max(0, limit-count)))
			h.Set("RateLimit-Reset", strconv.Itoa(seconds))

			if count > limit {
				h.Set("Retry-After", strconv.Itoa(seconds))
				logger.Warn("rate limit exceeded", "ip", ip, "count", count)
				rest.WriteText(w, http.StatusTooManyRequests, RateLimitMessage)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the peer address of the connection without its port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
