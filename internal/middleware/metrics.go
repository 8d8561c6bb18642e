package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Application-level counters. HTTP request metrics come from fiberprometheus;
// these cover the paths it cannot see.
var (
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hikari_redis_errors_total",
		Help: "Redis command errors by command name.",
	}, []string{"command"})

	ViewIncrements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hikari_view_increments_total",
		Help: "View-count increments that passed the per-viewer throttle.",
	})

	ViewThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hikari_view_throttled_total",
		Help: "View-count increments suppressed by the per-viewer throttle.",
	})

	CounterRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hikari_counter_recomputes_total",
		Help: "Denormalized show counter recomputations by outcome.",
	}, []string{"outcome"})

	SearchRebuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hikari_search_rebuilds_total",
		Help: "Search index rebuilds by snapshot source (cache or database).",
	}, []string{"source"})
)

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. Initialized once per process: fiberprometheus registers with the
// default registry, which rejects duplicates.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New(serviceName)
	})
	return promInstance
}

// MetricsMiddleware returns the fiberprometheus request-metrics handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
