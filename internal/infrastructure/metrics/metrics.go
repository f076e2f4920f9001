package metrics

import (
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "codeboard"

// Metrics groups every collector the service exports.
type Metrics struct {
	registry *prometheus.Registry

	activeRooms       prometheus.Gauge
	activeConnections prometheus.Gauge
	messagesReceived  *prometheus.CounterVec
	messagesDropped   *prometheus.CounterVec
	roomEvents        *prometheus.CounterVec
	slowClients       prometheus.Counter

	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	executorDuration *prometheus.HistogramVec
	executorErrors   *prometheus.CounterVec

	goroutines prometheus.GaugeFunc
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		activeRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of live rooms",
		}),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Number of attached websocket connections",
		}),
		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Client frames applied by the hub, by message type",
		}, []string{"type"}),
		messagesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_dropped_total",
			Help:      "Client frames ignored by the hub, by reason",
		}, []string{"reason"}),
		roomEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_events_total",
			Help:      "Room lifecycle events, by event type",
		}, []string{"event"}),
		slowClients: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slow_clients_total",
			Help:      "Connections dropped because their send buffer was full",
		}),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		executorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "executor_duration_seconds",
			Help:      "Round trip to the execution service, by language",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"language"}),
		executorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executor_errors_total",
			Help:      "Failed execution requests, by language",
		}, []string{"language"}),
		goroutines: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goroutines",
			Help:      "Number of goroutines",
		}, func() float64 {
			return float64(runtime.NumGoroutine())
		}),
	}

	reg.MustRegister(
		m.activeRooms,
		m.activeConnections,
		m.messagesReceived,
		m.messagesDropped,
		m.roomEvents,
		m.slowClients,
		m.requestCount,
		m.requestDuration,
		m.executorDuration,
		m.executorErrors,
		m.goroutines,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RoomOpened()  { m.activeRooms.Inc() }
func (m *Metrics) RoomClosed()  { m.activeRooms.Dec() }
func (m *Metrics) ClientAdded() { m.activeConnections.Inc() }
func (m *Metrics) ClientGone()  { m.activeConnections.Dec() }
func (m *Metrics) SlowClient()  { m.slowClients.Inc() }

func (m *Metrics) MessageReceived(msgType string) {
	m.messagesReceived.WithLabelValues(msgType).Inc()
}

func (m *Metrics) MessageDropped(reason string) {
	m.messagesDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) RoomEvent(event string) {
	m.roomEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	m.requestCount.WithLabelValues(method, route, http.StatusText(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) ObserveExecution(language string, seconds float64, failed bool) {
	m.executorDuration.WithLabelValues(language).Observe(seconds)
	if failed {
		m.executorErrors.WithLabelValues(language).Inc()
	}
}
