package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the process-wide collectors. Components receive it at
// construction time and increment their own counters.
type Registry struct {
	reg *prometheus.Registry

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	RateLimited prometheus.Counter

	// UpstreamCalls counts attempted external fetches by provider and outcome.
	UpstreamCalls *prometheus.CounterVec

	// Resolutions counts finished barcode resolutions by source tier.
	Resolutions *prometheus.CounterVec

	CatalogCreates   prometheus.Counter
	ForecastRequests prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{Name: "pourcast_cache_hits_total"})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{Name: "pourcast_cache_misses_total"})
	rateLimited := prometheus.NewCounter(prometheus.CounterOpts{Name: "pourcast_rate_limited_total"})
	upstreamCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pourcast_upstream_calls_total"},
		[]string{"provider", "outcome"},
	)
	resolutions := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pourcast_resolutions_total"},
		[]string{"source"},
	)
	catalogCreates := prometheus.NewCounter(prometheus.CounterOpts{Name: "pourcast_catalog_creates_total"})
	forecastRequests := prometheus.NewCounter(prometheus.CounterOpts{Name: "pourcast_forecast_requests_total"})

	r.MustRegister(cacheHits, cacheMisses, rateLimited, upstreamCalls, resolutions, catalogCreates, forecastRequests)

	return &Registry{
		reg:              r,
		CacheHits:        cacheHits,
		CacheMisses:      cacheMisses,
		RateLimited:      rateLimited,
		UpstreamCalls:    upstreamCalls,
		Resolutions:      resolutions,
		CatalogCreates:   catalogCreates,
		ForecastRequests: forecastRequests,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
