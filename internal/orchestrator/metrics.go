package orchestrator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments orchestrator runs. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	phaseDuration *prometheus.HistogramVec
	phaseQuality  *prometheus.GaugeVec
	phasesTotal   *prometheus.CounterVec
}

// NewMetrics registers orchestrator metrics with reg. Passing nil uses
// the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "draftd",
				Subsystem: "orchestrator",
				Name:      "runs_total",
				Help:      "Total generation runs by terminal status",
			},
			[]string{"status"},
		),
		runDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "draftd",
				Subsystem: "orchestrator",
				Name:      "run_duration_seconds",
				Help:      "Wall-clock duration of generation runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
			},
		),
		phaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "draftd",
				Subsystem: "orchestrator",
				Name:      "phase_duration_seconds",
				Help:      "Duration of individual phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"phase"},
		),
		phaseQuality: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "draftd",
				Subsystem: "orchestrator",
				Name:      "phase_quality",
				Help:      "Most recent quality score per phase (0-100)",
			},
			[]string{"phase"},
		),
		phasesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "draftd",
				Subsystem: "orchestrator",
				Name:      "phases_total",
				Help:      "Total phase executions by outcome",
			},
			[]string{"phase", "outcome"},
		),
	}
}

func (m *Metrics) observeRun(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) observePhase(phase string, elapsed time.Duration, quality float64, outcome string) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Observe(elapsed.Seconds())
	m.phaseQuality.WithLabelValues(phase).Set(quality)
	m.phasesTotal.WithLabelValues(phase, outcome).Inc()
}
