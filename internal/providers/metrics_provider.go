package providers

import (
	"betcodes/internal/structures"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveUpstreamDuration(resource string, duration time.Duration)
	ObservePersistenceDuration(duration time.Duration)
	IncTimerStarts()
	IncTimerExpirations()
	IncAdOutcome(outcome string)
	SetAccessState(state string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	upstreamDuration    *prometheus.HistogramVec
	persistenceDuration prometheus.Histogram
	timerStarts         prometheus.Counter
	timerExpirations    prometheus.Counter
	adOutcomes          *prometheus.CounterVec
	accessState         *prometheus.GaugeVec
}

var accessStates = []string{"locked", "unlocking", "unlocked", "subscribed"}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveUpstreamDuration(resource string, duration time.Duration) {
	m.upstreamDuration.WithLabelValues(resource).Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncTimerStarts() {
	m.timerStarts.Inc()
}

func (m *MetricsProvider) IncTimerExpirations() {
	m.timerExpirations.Inc()
}

func (m *MetricsProvider) IncAdOutcome(outcome string) {
	m.adOutcomes.WithLabelValues(outcome).Inc()
}

// SetAccessState flips the one-hot access state gauge.
func (m *MetricsProvider) SetAccessState(state string) {
	for _, s := range accessStates {
		v := 0.0
		if s == state {
			v = 1
		}
		m.accessState.WithLabelValues(s).Set(v)
	}
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}
	return newMetricsProvider(prometheus.DefaultRegisterer)
}

func newMetricsProvider(reg prometheus.Registerer) *MetricsProvider {
	factory := promauto.With(reg)
	return &MetricsProvider{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "betcodes_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "betcodes_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "betcodes_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "betcodes_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		upstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "betcodes_upstream_duration_seconds",
			Help:    "Duration of backend fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),

		persistenceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "betcodes_persistence_duration_seconds",
			Help:    "Duration of preference store flushes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		timerStarts: factory.NewCounter(prometheus.CounterOpts{
			Name: "betcodes_premium_timer_starts_total",
			Help: "Total number of premium windows granted",
		}),

		timerExpirations: factory.NewCounter(prometheus.CounterOpts{
			Name: "betcodes_premium_timer_expirations_total",
			Help: "Total number of premium windows that ran out",
		}),

		adOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "betcodes_rewarded_ads_total",
			Help: "Rewarded ad attempts by outcome",
		}, []string{"outcome"}),

		accessState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "betcodes_access_state",
			Help: "Current premium access state (one-hot)",
		}, []string{"state"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)        {}
func (n *noopMetrics) IncTimerStarts()                                   {}
func (n *noopMetrics) IncTimerExpirations()                              {}
func (n *noopMetrics) IncAdOutcome(_ string)                             {}
func (n *noopMetrics) SetAccessState(_ string)                           {}
