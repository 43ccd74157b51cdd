package proxy

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mdproxy",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of requests issued to the modeling server",
		},
		[]string{"endpoint", "method", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mdproxy",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Duration of modeling server requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	cacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mdproxy",
			Subsystem: "client",
			Name:      "cache_events_total",
			Help:      "Cache hits, misses, and invalidations per cache",
		},
		[]string{"cache", "event"},
	)

	notifyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mdproxy",
			Subsystem: "client",
			Name:      "notifications_total",
			Help:      "Total model-changed fanouts to listeners",
		},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, cacheEvents, notifyTotal)
}

// observeRequest records one request outcome. A status of 0 means the
// request never produced a response (transport failure).
func observeRequest(endpoint, method string, status int, dur time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	requestsTotal.WithLabelValues(endpoint, method, label).Inc()
	requestDuration.WithLabelValues(endpoint, method, label).Observe(dur.Seconds())
}

func observeCache(cache, event string) {
	cacheEvents.WithLabelValues(cache, event).Inc()
}
