package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/travlrgetaways/travlr/pkg/response"
)

type rateBucket struct {
	count   int
	resetAt time.Time
}

// RateLimit returns a fixed-window per-IP limiter. Wired on the login
// route to slow credential stuffing.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		buckets = make(map[string]*rateBucket)
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			now := time.Now()

			mu.Lock()
			bucket, ok := buckets[ip]
			if !ok || now.After(bucket.resetAt) {
				bucket = &rateBucket{resetAt: now.Add(window)}
				buckets[ip] = bucket
			}
			bucket.count++
			exceeded := bucket.count > limit

			// Drop stale buckets so the map does not grow unbounded.
			if len(buckets) > 10000 {
				for key, b := range buckets {
					if now.After(b.resetAt) {
						delete(buckets, key)
					}
				}
			}
			mu.Unlock()

			if exceeded {
				response.Message(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
