package observability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors used across the service.
type Metrics struct {
	Registry *prometheus.Registry

	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
	Errors   *prometheus.CounterVec

	Sessions        prometheus.Gauge
	BroadcastFrames *prometheus.CounterVec
	DroppedFrames   *prometheus.CounterVec
	MailsSent       *prometheus.CounterVec
}

// NewMetrics creates collectors on a fresh registry.
func NewMetrics(namespace string) (*Metrics, error) {
	if namespace == "" {
		namespace = "chat"
	}
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests partitioned by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Error responses partitioned by route, method, and error code.",
		}, []string{"route", "method", "code"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "sessions",
			Help:      "Currently connected websocket sessions.",
		}),
		BroadcastFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "frames_enqueued_total",
			Help:      "Broadcast frames enqueued to sessions, by event.",
		}, []string{"event"}),
		DroppedFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "frames_dropped_total",
			Help:      "Broadcast frames dropped because a session buffer was full, by event.",
		}, []string{"event"}),
		MailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "otp_deliveries_total",
			Help:      "OTP mail delivery attempts by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{
		m.Requests, m.Duration, m.InFlight, m.Errors,
		m.Sessions, m.BroadcastFrames, m.DroppedFrames, m.MailsSent,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.Duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(route, method, code).Inc()
}

// RecordMail counts an OTP delivery outcome ("sent" or "failed").
func (m *Metrics) RecordMail(outcome string) {
	if m == nil {
		return
	}
	m.MailsSent.WithLabelValues(outcome).Inc()
}
