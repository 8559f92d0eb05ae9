package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultNamespace = "http_wrapper"

// Outcomes of a dispatched request, used as the "via" label.
const (
	ViaRoute    = "route"
	ViaStatic   = "static"
	ViaNotFound = "not_found"
)

// MethodOther labels every request whose method is not routable.
const MethodOther = "other"

var knownMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodPatch:   true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// Config configures the collectors Metrics registers.
type Config struct {
	// Namespace prefixes every metric name.
	Namespace string

	// Buckets are the histogram buckets for request durations.
	Buckets []float64

	// Registry registers the collectors.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// An Option configures Metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithBuckets sets the request duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Metrics records HTTP dispatch and WebSocket hub activity.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	connectionsOpen  prometheus.Gauge
	connectionsTotal prometheus.Counter
	framesReceived   *prometheus.CounterVec
	messagesSent     prometheus.Counter
	messagesDropped  *prometheus.CounterVec
}

// New constructs a *Metrics, registering its collectors.
// New panics if the collectors are already registered with the registry.
func New(opts ...Option) *Metrics {
	config := Config{
		Namespace: defaultNamespace,
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "requests_total",
			Help:      "Total number of dispatched HTTP requests",
		}, []string{"method", "via", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP dispatch duration in seconds",
			Buckets:   config.Buckets,
		}, []string{"method", "via"}),

		connectionsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "websocket_connections",
			Help:      "Number of open WebSocket connections",
		}),

		connectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "websocket_connections_total",
			Help:      "Total number of accepted WebSocket connections",
		}),

		framesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "websocket_frames_received_total",
			Help:      "Total WebSocket frames received by outcome",
		}, []string{"outcome"}),

		messagesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "websocket_messages_sent_total",
			Help:      "Total WebSocket messages queued for delivery",
		}),

		messagesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "websocket_messages_dropped_total",
			Help:      "Total WebSocket messages dropped before delivery",
		}, []string{"reason"}),
	}
}

// ObserveRequest records one dispatched request.
// A method outside GET, POST, PUT, DELETE, PATCH, HEAD and OPTIONS is recorded as MethodOther.
func (m *Metrics) ObserveRequest(method, via string, status int, d time.Duration) {
	if m == nil {
		return
	}

	if !knownMethods[method] {
		method = MethodOther
	}

	m.requestsTotal.WithLabelValues(method, via, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, via).Observe(d.Seconds())
}

// ConnectionOpened records an accepted WebSocket connection.
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}

	m.connectionsOpen.Inc()
	m.connectionsTotal.Inc()
}

// ConnectionClosed records a WebSocket connection leaving the hub.
func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}

	m.connectionsOpen.Dec()
}

// FrameReceived records a frame read from a connection.
// outcome is e.g. "dispatched", "ignored", "malformed" or "limited".
func (m *Metrics) FrameReceived(outcome string) {
	if m == nil {
		return
	}

	m.framesReceived.WithLabelValues(outcome).Inc()
}

// MessageSent records a message queued to a connection.
func (m *Metrics) MessageSent() {
	if m == nil {
		return
	}

	m.messagesSent.Inc()
}

// MessageDropped records a message that was not delivered.
func (m *Metrics) MessageDropped(reason string) {
	if m == nil {
		return
	}

	m.messagesDropped.WithLabelValues(reason).Inc()
}
