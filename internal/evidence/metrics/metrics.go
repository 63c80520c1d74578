package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for criterion evaluation.
type Metrics struct {
	// Per-judgment oracle latency
	JudgmentLatency prometheus.Histogram

	// Judgment outcomes by classified status
	JudgmentOutcome *prometheus.CounterVec

	// Oracle calls currently in flight (bounded by the shared limiter)
	InFlight prometheus.Gauge
}

// New creates a Metrics instance with all evaluation metrics registered.
func New() *Metrics {
	return &Metrics{
		JudgmentLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "authscript_judgment_duration_seconds",
			Help:    "Duration of single-criterion oracle judgments",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		JudgmentOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "authscript_judgment_outcomes_total",
			Help: "Total judgment outcomes by classified status",
		}, []string{"status"}), // status: "MET", "NOT_MET", "UNCLEAR"

		InFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "authscript_judgments_in_flight",
			Help: "Oracle judgments currently in flight across all requests",
		}),
	}
}

// ObserveJudgmentLatency records the duration of one oracle judgment.
func (m *Metrics) ObserveJudgmentLatency(d time.Duration) {
	if m != nil {
		m.JudgmentLatency.Observe(d.Seconds())
	}
}

// IncrementOutcome records a classified judgment outcome.
func (m *Metrics) IncrementOutcome(status string) {
	if m != nil {
		m.JudgmentOutcome.WithLabelValues(status).Inc()
	}
}

// JudgmentStarted marks an oracle call entering flight.
func (m *Metrics) JudgmentStarted() {
	if m != nil {
		m.InFlight.Inc()
	}
}

// JudgmentFinished marks an oracle call leaving flight.
func (m *Metrics) JudgmentFinished() {
	if m != nil {
		m.InFlight.Dec()
	}
}
