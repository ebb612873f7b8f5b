// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewMetrics registers the service collectors and the Go runtime
// collectors on a new registry.
func NewMetrics(version string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	build := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "beacon_query_build_info",
			Help: "Build info for this binary (value is always 1).",
		},
		[]string{"version"},
	)
	if version == "" {
		version = "dev"
	}
	build.WithLabelValues(version).Set(1)

	m := &Metrics{
		reg: reg,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beacon_query_http_requests_total",
				Help: "HTTP requests by route and status code.",
			},
			[]string{"route", "code"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beacon_query_validation_failures_total",
				Help: "Rejected forms by reason.",
			},
			[]string{"reason"},
		),
	}
	reg.MustRegister(build, m.requests, m.failures)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
