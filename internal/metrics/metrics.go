// Package metrics holds the Prometheus collectors of the admission pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	admissions       *prometheus.CounterVec
	admissionLatency *prometheus.HistogramVec
	gateActions      *prometheus.CounterVec
	fraudAlerts      *prometheus.CounterVec
	throttled        *prometheus.CounterVec
	throttleFailOpen *prometheus.CounterVec
	events           *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	subscribers      prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bid_admissions_total",
			Help: "Bid admission attempts by final status.",
		}, []string{"status"}),
		admissionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bid_admission_duration_seconds",
			Help:    "Time spent admitting a bid, lock wait included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		gateActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rapid_bidding_gate_actions_total",
			Help: "Rapid-bidding gate decisions by action.",
		}, []string{"action"}),
		fraudAlerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fraud_alerts_total",
			Help: "Fraud alerts raised by type and severity.",
		}, []string{"type", "severity"}),
		throttled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "throttle_rejections_total",
			Help: "Messages rejected by the transport throttle.",
		}, []string{"rule"}),
		throttleFailOpen: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "throttle_fail_open_total",
			Help: "Messages allowed because the throttle cache failed.",
		}, []string{"rule"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bid_events_published_total",
			Help: "Domain events handed to publishers by type and result.",
		}, []string{"type", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "realtime_subscribers",
			Help: "Open websocket subscriptions.",
		}),
	}
	reg.MustRegister(m.admissions, m.admissionLatency, m.gateActions, m.fraudAlerts,
		m.throttled, m.throttleFailOpen, m.events, m.httpRequests, m.httpDuration, m.subscribers)
	return m
}

func (m *Metrics) Admission(status string, took time.Duration) {
	if m == nil {
		return
	}
	m.admissions.WithLabelValues(status).Inc()
	m.admissionLatency.WithLabelValues(status).Observe(took.Seconds())
}

func (m *Metrics) GateAction(action string) {
	if m == nil {
		return
	}
	m.gateActions.WithLabelValues(action).Inc()
}

func (m *Metrics) FraudAlert(alertType, severity string) {
	if m == nil {
		return
	}
	m.fraudAlerts.WithLabelValues(alertType, severity).Inc()
}

func (m *Metrics) Throttled(rule string) {
	if m == nil {
		return
	}
	m.throttled.WithLabelValues(rule).Inc()
}

func (m *Metrics) ThrottleFailOpen(rule string) {
	if m == nil {
		return
	}
	m.throttleFailOpen.WithLabelValues(rule).Inc()
}

func (m *Metrics) Event(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.events.WithLabelValues(eventType, result).Inc()
}

// Subscribers adjusts the open websocket subscription gauge by delta.
func (m *Metrics) Subscribers(delta int) {
	if m == nil {
		return
	}
	m.subscribers.Add(float64(delta))
}

// Instrument is gin middleware recording request counts and latency by route.
func (m *Metrics) Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the metrics of gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
