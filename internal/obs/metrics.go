package obs

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Client-side metrics: API traffic, realtime channel health, notification state.
var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mesadoc_api_requests_total",
			Help: "Total number of API requests issued by the client.",
		},
		[]string{"method", "endpoint", "status"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mesadoc_api_request_duration_seconds",
			Help:    "API request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	realtimeEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mesadoc_realtime_events_total",
			Help: "Realtime events received, per event name.",
		},
		[]string{"event"},
	)

	realtimeReconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mesadoc_realtime_reconnects_total",
		Help: "Reconnection attempts of the realtime channel.",
	})

	realtimeDedupDropsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mesadoc_realtime_dedup_drops_total",
		Help: "Realtime events dropped as duplicates.",
	})

	notificationsUnread = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mesadoc_notifications_unread",
		Help: "Current unread notification counter.",
	})
)

// Init registers the client metrics in the default registry.
func Init() {
	prometheus.MustRegister(
		apiRequestsTotal,
		apiRequestDuration,
		realtimeEventsTotal,
		realtimeReconnectsTotal,
		realtimeDedupDropsTotal,
		notificationsUnread,
	)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveAPIRequest records a completed API call.
func ObserveAPIRequest(method, endpoint, status string, d time.Duration) {
	apiRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	apiRequestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

// ObserveRealtimeEvent counts an inbound realtime event.
func ObserveRealtimeEvent(event string) {
	realtimeEventsTotal.WithLabelValues(event).Inc()
}

// ObserveRealtimeReconnect counts a reconnection attempt.
func ObserveRealtimeReconnect() { realtimeReconnectsTotal.Inc() }

// ObserveRealtimeDedupDrop counts an event dropped as a duplicate.
func ObserveRealtimeDedupDrop() { realtimeDedupDropsTotal.Inc() }

// SetUnreadCount mirrors the notification store's unread counter.
func SetUnreadCount(n int) { notificationsUnread.Set(float64(n)) }

// CanonicalPath collapses identifier segments so endpoint labels stay low-cardinality.
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	switch {
	case len(segments) >= 3 && segments[1] == "tramites" && segments[2] != "":
		segments[2] = ":id"
	case len(segments) >= 3 && segments[1] == "notificaciones" && segments[2] != "" &&
		segments[2] != "unread-count" && segments[2] != "read-all":
		segments[2] = ":id"
	case len(segments) >= 3 && segments[1] == "documentos" && segments[2] != "":
		segments[2] = ":id"
	}
	return strings.Join(segments, "/")
}
