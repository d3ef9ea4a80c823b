package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	AdmissionDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_admission_decisions_total",
			Help: "Total number of admission decisions by outcome",
		},
		[]string{"outcome"},
	)

	FilterDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_filter_denials_total",
			Help: "Total number of denials attributed to each filter",
		},
		[]string{"filter"},
	)

	ReservationsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_reservations_written_total",
			Help: "Total number of identifier reservations recorded",
		},
		[]string{"kind"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_store_operation_duration_seconds",
			Help:    "Time to complete reservation store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "operation"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_store_errors_total",
			Help: "Total number of reservation store errors",
		},
		[]string{"store", "operation"},
	)

	RelayEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_relay_events_total",
			Help: "Total number of relay events processed by type and outcome",
		},
		[]string{"event", "outcome"},
	)

	DeferredEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: Namespace + "_relay_deferred_events",
			Help: "Current number of events awaiting redelivery",
		},
	)

	CertificatesRelayedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: Namespace + "_certificates_relayed_total",
			Help: "Total number of issued certificates delivered to tenants",
		},
	)

	CertificatesDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_certificates_dropped_total",
			Help: "Total number of issued certificates dropped before delivery",
		},
		[]string{"reason"},
	)
)
