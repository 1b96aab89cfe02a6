package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ask outcomes recorded by PipelineMetrics.
const (
	AskOutcomeAnswered   = "answered"
	AskOutcomeDispatched = "dispatched"
	AskOutcomeRejected   = "rejected"
	AskOutcomeSuppressed = "suppressed"
	AskOutcomeFailed     = "failed"
)

// PipelineMetrics tracks the question-answering pipeline: ask outcomes,
// per-stage latency, audit verdicts and canary leak detections.
type PipelineMetrics struct {
	registry *prometheus.Registry

	asksTotal     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	auditVerdicts *prometheus.CounterVec
	leaksTotal    prometheus.Counter
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	asksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parsa",
			Subsystem: "qa",
			Name:      "asks_total",
			Help:      "Total questions by outcome.",
		},
		[]string{"service", "outcome"},
	)
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "parsa",
			Subsystem: "qa",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds.",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"service", "stage"},
	)
	auditVerdicts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parsa",
			Subsystem: "qa",
			Name:      "audit_verdicts_total",
			Help:      "Grounding audit verdicts by result.",
		},
		[]string{"service", "verdict"},
	)
	leaksTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parsa",
			Subsystem: "qa",
			Name:      "leaks_detected_total",
			Help:      "Responses suppressed because canary or delimiter leaked.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(asksTotal, stageDuration, auditVerdicts, leaksTotal)

	return &PipelineMetrics{
		registry:      registry,
		asksTotal:     asksTotal,
		stageDuration: stageDuration,
		auditVerdicts: auditVerdicts,
		leaksTotal:    leaksTotal,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) RecordAsk(service, outcome string) {
	m.asksTotal.WithLabelValues(service, outcome).Inc()
}

func (m *PipelineMetrics) ObserveStage(service, stage string, duration time.Duration) {
	m.stageDuration.WithLabelValues(service, stage).Observe(duration.Seconds())
}

func (m *PipelineMetrics) RecordAuditVerdict(service string, clean bool) {
	verdict := "flagged"
	if clean {
		verdict = "clean"
	}
	m.auditVerdicts.WithLabelValues(service, verdict).Inc()
}

func (m *PipelineMetrics) RecordLeak() {
	m.leaksTotal.Inc()
}
