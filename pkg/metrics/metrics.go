// Package metrics exposes Prometheus counters for the API plus a few
// booking-domain series worth alerting on.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "travlr"

var (
	registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// CartItemsAdded counts successful cart inserts by catalog collection.
	CartItemsAdded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_items_added_total",
		Help:      "Items added to carts, by collection.",
	}, []string{"collection"})

	// GuestMigrations counts guest accounts upgraded at registration.
	GuestMigrations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guest_migrations_total",
		Help:      "Guest accounts migrated into registered users.",
	})

	// MigratedItems counts cart items reassigned during migration.
	MigratedItems = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "migrated_cart_items_total",
		Help:      "Cart items reassigned during guest migration.",
	})

	// TOTPEnrollments counts completed two-factor verifications.
	TOTPEnrollments = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "totp_enrollments_total",
		Help:      "Successful two-factor enrollments.",
	})

	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Catalog cache hits.",
	})

	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Catalog cache misses.",
	})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		CartItemsAdded,
		GuestMigrations,
		MigratedItems,
		TOTPEnrollments,
		CacheHits,
		CacheMisses,
	)
}

// Middleware records request counts and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the scrape endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
