package middleware

import (
	"net/http"
	"time"
)

// Timeout bounds the whole request. Handlers see the deadline on r.Context();
// a handler still running when it passes gets a 503 written on its behalf.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "Request timed out")
	}
}
