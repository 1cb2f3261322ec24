package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"docugenius/api/internal/structure"
)

const namespace = "docugenius"

// Ask instruments the /ask pipeline.
type Ask struct {
	RequestsTotal     *prometheus.CounterVec
	GenerationSeconds *prometheus.HistogramVec
	Confidence        prometheus.Histogram
	ResourcesTotal    prometheus.Counter
}

// NewAsk registers the ask metrics on reg. Pass prometheus.NewRegistry() in
// tests to keep them isolated.
func NewAsk(reg prometheus.Registerer) *Ask {
	f := promauto.With(reg)
	return &Ask{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ask",
				Name:      "requests_total",
				Help:      "Explanation requests by engine and outcome",
			},
			[]string{"engine", "status"},
		),
		GenerationSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ask",
				Name:      "generation_seconds",
				Help:      "Time from request start to assembled result",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90},
			},
			[]string{"engine"},
		),
		Confidence: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ask",
				Name:      "confidence",
				Help:      "Placeholder confidence reported on successful results",
				Buckets:   []float64{0.8, 0.85, 0.9, 0.95, 1},
			},
		),
		ResourcesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ask",
				Name:      "resources_total",
				Help:      "External resources attached to results",
			},
		),
	}
}

// Observe records one finished request. A nil receiver is a no-op.
func (m *Ask) Observe(engine string, res structure.Result) {
	if m == nil {
		return
	}
	status := "success"
	if !res.Success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(engine, status).Inc()
	m.GenerationSeconds.WithLabelValues(engine).Observe(res.GenerationTime)
	if res.Success {
		m.Confidence.Observe(res.Confidence)
	}
	m.ResourcesTotal.Add(float64(len(res.ExternalResources)))
}
