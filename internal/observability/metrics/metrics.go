package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hackconnect_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hackconnect_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hackconnect_upstream_request_duration_seconds",
		Help:    "Duration of calls to the hosted identity/document stores",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "result"})

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hackconnect_registrations_total",
		Help: "Registration attempts by result",
	}, []string{"result"})

	orphanedIdentities = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hackconnect_orphaned_identities_total",
		Help: "Identity records observed without a matching profile document",
	})

	teamsDisbanded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hackconnect_teams_disbanded_total",
		Help: "Teams deleted because the leader left",
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hackconnect_cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveUpstream records one remote-store call.
func ObserveUpstream(op, result string, duration time.Duration) {
	upstreamRequestDuration.WithLabelValues(op, result).Observe(duration.Seconds())
}

// ObserveRegistration counts a registration attempt. Results: success,
// conflict, orphaned, error.
func ObserveRegistration(result string) {
	registrations.WithLabelValues(result).Inc()
}

// ObserveOrphanedIdentity counts an observed identity/profile inconsistency.
func ObserveOrphanedIdentity() {
	orphanedIdentities.Inc()
}

// ObserveDisband counts a leader-departure team deletion.
func ObserveDisband() {
	teamsDisbanded.Inc()
}

// ObserveCacheLookup counts a cache hit or miss.
func ObserveCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}
