package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts and times outgoing API requests.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewMetrics registers the client collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spicestore_client_requests_total",
				Help: "Total number of API requests sent by the client",
			},
			[]string{"method", "code"},
		),
		Duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spicestore_client_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "spicestore_client_requests_in_flight",
			Help: "API requests currently waiting for a response",
		}),
	}
}

func (m *Metrics) instrument(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperInFlight(m.InFlight,
		promhttp.InstrumentRoundTripperCounter(m.Requests,
			promhttp.InstrumentRoundTripperDuration(m.Duration, next)))
}
