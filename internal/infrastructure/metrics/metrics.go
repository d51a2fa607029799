package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds every collector of this process; the default
	// global registry is never used.
	Registry = prometheus.NewRegistry()

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	MomentsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "moments_expired_total",
			Help: "Moments moved to expired by the sweep.",
		},
	)

	ExpirySweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expiry_sweeps_total",
			Help: "Expiry sweeps by result (ok, empty, error).",
		},
		[]string{"result"},
	)

	ExpirySweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expiry_sweep_duration_seconds",
			Help:    "Duration of expiry sweeps.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)
)

func init() {
	Registry.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		MomentsExpiredTotal,
		ExpirySweepsTotal,
		ExpirySweepDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes Registry in the text exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordSweep updates the sweep collectors for one run.
func RecordSweep(expired int, seconds float64, err error) {
	ExpirySweepDuration.Observe(seconds)
	switch {
	case err != nil:
		ExpirySweepsTotal.WithLabelValues("error").Inc()
	case expired == 0:
		ExpirySweepsTotal.WithLabelValues("empty").Inc()
	default:
		ExpirySweepsTotal.WithLabelValues("ok").Inc()
		MomentsExpiredTotal.Add(float64(expired))
	}
}
