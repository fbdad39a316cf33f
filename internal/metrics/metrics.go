// Package metrics exposes prometheus instruments for the shape gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shapegate_build_info",
			Help: "Build information of the shape gateway",
		},
		[]string{"version", "commit", "date"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shapegate_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shapegate_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 0.01s to ~41s
		},
		[]string{"route"},
	)

	AuthorizationDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shapegate_authorization_denied_total",
			Help: "Total number of requests denied by the scope policy",
		},
		[]string{"shape", "scope"},
	)

	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shapegate_upstream_errors_total",
			Help: "Total number of failed connections to the sync origin",
		},
		[]string{"shape"},
	)
)
