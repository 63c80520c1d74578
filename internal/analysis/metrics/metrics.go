package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the analysis pipeline.
type Metrics struct {
	// Completed analyses by recommendation
	Outcomes *prometheus.CounterVec

	// End-to-end criterion evaluation latency per analysis
	EvaluateLatency prometheus.Histogram

	// Full analysis latency including narrative generation
	AnalysisLatency prometheus.Histogram

	// Result cache hits and misses
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New creates a Metrics instance with all analysis metrics registered.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "authscript_analysis_outcomes_total",
			Help: "Completed analyses by recommendation",
		}, []string{"recommendation"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "authscript_analysis_evaluate_duration_seconds",
			Help:    "Duration of the criterion evaluation phase per analysis",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		AnalysisLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "authscript_analysis_duration_seconds",
			Help:    "Duration of a full analysis including narrative generation",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authscript_analysis_cache_hits_total",
			Help: "Analyses served from the result cache",
		}),

		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "authscript_analysis_cache_misses_total",
			Help: "Analyses that required a fresh evaluation",
		}),
	}
}

// IncrementOutcome records a completed analysis recommendation.
func (m *Metrics) IncrementOutcome(recommendation string) {
	if m != nil {
		m.Outcomes.WithLabelValues(recommendation).Inc()
	}
}

// ObserveEvaluateLatency records the duration of the evaluation phase.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// ObserveAnalysisLatency records the duration of a full analysis.
func (m *Metrics) ObserveAnalysisLatency(d time.Duration) {
	if m != nil {
		m.AnalysisLatency.Observe(d.Seconds())
	}
}

// CacheHit records a result served from cache.
func (m *Metrics) CacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// CacheMiss records a result that required fresh evaluation.
func (m *Metrics) CacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}
