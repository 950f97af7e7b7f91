// Package metrics provides the Prometheus registry for the HTTP facade.
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "athlete_guard",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})
	WebSocketMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "athlete_guard",
		Name:      "websocket_messages_total",
		Help:      "Total number of chat messages received over websockets",
	})
)

// Gauge metrics
var (
	HTTPRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "athlete_guard",
		Name:      "http_requests_in_flight",
		Help:      "Number of HTTP requests currently being served",
	})
	WebSocketConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "athlete_guard",
		Name:      "websocket_connections",
		Help:      "Number of open chat websocket connections",
	})
	ModelsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "athlete_guard",
		Name:      "models_loaded",
		Help:      "1 when the trained artifacts are loaded, 0 otherwise",
	})
)

// Histogram metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "athlete_guard",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(WebSocketMessagesTotal)

		registry.MustRegister(HTTPRequestsInFlight)
		registry.MustRegister(WebSocketConnections)
		registry.MustRegister(ModelsLoaded)

		registry.MustRegister(HTTPRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler. It also exposes the default
// registry, which carries the Go runtime collectors and promauto metrics.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordRequest records a completed HTTP request.
func RecordRequest(route, method string, status int, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(durationSeconds)
}

// RequestStarted increments the in-flight gauge.
func RequestStarted() {
	HTTPRequestsInFlight.Inc()
}

// RequestFinished decrements the in-flight gauge.
func RequestFinished() {
	HTTPRequestsInFlight.Dec()
}

// WebSocketOpened records a new chat websocket connection.
func WebSocketOpened() {
	WebSocketConnections.Inc()
}

// WebSocketClosed records a closed chat websocket connection.
func WebSocketClosed() {
	WebSocketConnections.Dec()
}

// RecordWebSocketMessage records one inbound websocket chat message.
func RecordWebSocketMessage() {
	WebSocketMessagesTotal.Inc()
}

// SetModelsLoaded updates the models loaded gauge.
func SetModelsLoaded(loaded bool) {
	if loaded {
		ModelsLoaded.Set(1)
		return
	}
	ModelsLoaded.Set(0)
}
