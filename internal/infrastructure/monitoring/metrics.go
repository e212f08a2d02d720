package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing, so domain components can run without a collector in tests.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Session metrics
	Sessions      *prometheus.GaugeVec
	SessionEvents *prometheus.CounterVec

	// Render target metrics
	DisplaysActive prometheus.Gauge
	DisplayOps     *prometheus.CounterVec

	// Input metrics
	InputEvents *prometheus.CounterVec

	// Task metrics
	TasksBound      prometheus.Gauge
	TaskResolutions *prometheus.CounterVec

	// Bridge metrics
	BridgeCalls    *prometheus.CounterVec
	BridgeDuration *prometheus.HistogramVec
	WSConnections  prometheus.Gauge
	WSMessages     *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	ActiveConnections int64   `json:"active_connections"`
	InputDropped      int64   `json:"input_dropped"`
	TotalDuration     float64 `json:"-"`
	RequestCount      int64   `json:"-"`
	AvgLatencySeconds float64 `json:"avg_latency_seconds"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector registered with reg. A nil reg
// registers with the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgelink_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgelink_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgelink_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgelink_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Session metrics
		Sessions: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "edgelink_sessions",
				Help: "Number of floating window sessions by state",
			},
			[]string{"state"},
		),
		SessionEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgelink_session_events_total",
				Help: "Total number of session lifecycle events",
			},
			[]string{"event"},
		),

		// Render target metrics
		DisplaysActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "edgelink_displays_active",
				Help: "Number of live render targets",
			},
		),
		DisplayOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgelink_display_operations_total",
				Help: "Total number of render target operations",
			},
			[]string{"op", "status"},
		),

		// Input metrics
		InputEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgelink_input_events_total",
				Help: "Total number of injected input events",
			},
			[]string{"kind", "outcome"},
		),

		// Task metrics
		TasksBound: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "edgelink_tasks_bound",
				Help: "Number of external tasks bound to sessions",
			},
		),
		TaskResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgelink_task_resolutions_total",
				Help: "Total number of task resolution attempts",
			},
			[]string{"outcome"},
		),

		// Bridge metrics
		BridgeCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgelink_bridge_calls_total",
				Help: "Total number of shell bridge calls",
			},
			[]string{"service", "method", "status"},
		),
		BridgeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgelink_bridge_duration_seconds",
				Help:    "Shell bridge call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"service", "method"},
		),
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "edgelink_ws_connections",
				Help: "Number of connected shell hosts",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgelink_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "edgelink_uptime_seconds",
			Help: "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// SetSessions publishes the per-state session counts
func (m *Metrics) SetSessions(loading, active, minimized int) {
	if m == nil {
		return
	}
	m.Sessions.WithLabelValues("loading").Set(float64(loading))
	m.Sessions.WithLabelValues("active").Set(float64(active))
	m.Sessions.WithLabelValues("minimized").Set(float64(minimized))
}

// RecordSessionEvent counts a session lifecycle event
func (m *Metrics) RecordSessionEvent(event string) {
	if m == nil {
		return
	}
	m.SessionEvents.WithLabelValues(event).Inc()
}

// RecordDisplayOp counts a render target operation. Successful creates and
// releases move the live gauge.
func (m *Metrics) RecordDisplayOp(op string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DisplayOps.WithLabelValues(op, status).Inc()

	if err != nil {
		return
	}
	switch op {
	case "create":
		m.DisplaysActive.Inc()
	case "release":
		m.DisplaysActive.Dec()
	}
}

// RecordInput counts an input event by kind (pointer, key) and outcome
// (injected, failed, dropped)
func (m *Metrics) RecordInput(kind, outcome string) {
	if m == nil {
		return
	}
	m.InputEvents.WithLabelValues(kind, outcome).Inc()
	if outcome != "injected" {
		m.mu.Lock()
		m.snapshot.InputDropped++
		m.mu.Unlock()
	}
}

// SetTasksBound sets the number of bound tasks
func (m *Metrics) SetTasksBound(count int) {
	if m == nil {
		return
	}
	m.TasksBound.Set(float64(count))
}

// RecordTaskResolution counts a resolution attempt by outcome
func (m *Metrics) RecordTaskResolution(outcome string) {
	if m == nil {
		return
	}
	m.TaskResolutions.WithLabelValues(outcome).Inc()
}

// RecordBridgeCall records a round trip to the shell host
func (m *Metrics) RecordBridgeCall(service, method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.BridgeCalls.WithLabelValues(service, method, status).Inc()
	m.BridgeDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current JSON-friendly metric values
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.RequestCount > 0 {
		s.AvgLatencySeconds = s.TotalDuration / float64(s.RequestCount)
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
