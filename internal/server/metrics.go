package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	evaluations *prometheus.CounterVec
	lcoe        *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "costingfe",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "costingfe",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"route"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "costingfe",
			Name:      "evaluations_total",
			Help:      "Forward evaluations by concept, fuel and outcome.",
		}, []string{"concept", "fuel", "outcome"}),
		lcoe: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "costingfe",
			Name:      "last_lcoe_dollars_per_mwh",
			Help:      "LCOE of the most recent successful forward evaluation.",
		}, []string{"concept", "fuel"}),
	}
	reg.MustRegister(m.requests, m.duration, m.evaluations, m.lcoe)
	return m
}

func (m *metrics) observeRequest(route, method string, status int, elapsed time.Duration) {
	if status == 0 {
		status = 200
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *metrics) observeEvaluation(concept, fuel string, lcoe float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.evaluations.WithLabelValues(concept, fuel, outcome).Inc()
	if err == nil {
		m.lcoe.WithLabelValues(concept, fuel).Set(lcoe)
	}
}
