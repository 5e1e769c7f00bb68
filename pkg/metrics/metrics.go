// Package metrics provides Prometheus metrics for the risk engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Assessment pipeline
	assessmentsRun      prometheus.Counter
	assessmentsFailed   *prometheus.CounterVec
	assessmentDuration  prometheus.Histogram
	levelTransitions    *prometheus.CounterVec
	fellowsByLevel      *prometheus.GaugeVec
	assessmentQueueSize prometheus.Gauge

	// Warning workflow
	warningsDrafted      *prometheus.CounterVec
	warningsIssued       *prometheus.CounterVec
	warningsAcknowledged prometheus.Counter

	// External collaborators
	drafterRequests prometheus.Counter
	drafterErrors   prometheus.Counter
	drafterLatency  prometheus.Histogram
	notifyEvents    *prometheus.CounterVec
	notifyErrors    prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

var global = NewManager()

// NewManager builds a Manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "fellowtrack",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.register()
	return m
}

func (m *Manager) register() {
	auto := promauto.With(m.registry)

	m.assessmentsRun = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "assessments_run_total",
		Help:      "Total number of risk assessments completed",
	})
	m.assessmentsFailed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "assessments_failed_total",
		Help:      "Total number of failed risk assessments by reason",
	}, []string{"reason"})
	m.assessmentDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "assessment_duration_seconds",
		Help:      "Histogram of end-to-end assessment duration",
		Buckets:   prometheus.DefBuckets,
	})
	m.levelTransitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "level_transitions_total",
		Help:      "Total number of risk level transitions by target level",
	}, []string{"level"})
	m.fellowsByLevel = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "fellows_by_level",
		Help:      "Current number of fellows at each risk level",
	}, []string{"level"})
	m.assessmentQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "assessment_queue_size",
		Help:      "Current depth of the assessment job queue",
	})

	m.warningsDrafted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "warnings_drafted_total",
		Help:      "Total number of warnings drafted by level",
	}, []string{"level"})
	m.warningsIssued = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "warnings_issued_total",
		Help:      "Total number of warnings issued by level",
	}, []string{"level"})
	m.warningsAcknowledged = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "warnings_acknowledged_total",
		Help:      "Total number of warnings acknowledged by fellows",
	})

	m.drafterRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "drafter_requests_total",
		Help:      "Total number of text-generation requests",
	})
	m.drafterErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "drafter_errors_total",
		Help:      "Total number of failed or rejected text-generation responses",
	})
	m.drafterLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "drafter_latency_seconds",
		Help:      "Histogram of text-generation request latency",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
	})
	m.notifyEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "notify_events_total",
		Help:      "Total number of escalation notifications dispatched by kind",
	}, []string{"kind"})
	m.notifyErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "notify_errors_total",
		Help:      "Total number of notification delivery failures",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and status",
	}, []string{"endpoint", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Histogram of HTTP request duration by endpoint",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
}

// Handler exposes the global registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(global.registry, promhttp.HandlerOpts{})
}

// Package-level recording helpers against the global manager.

func RecordAssessmentRun()                 { global.assessmentsRun.Inc() }
func RecordAssessmentFailed(reason string) { global.assessmentsFailed.WithLabelValues(reason).Inc() }
func ObserveAssessmentDuration(s float64)  { global.assessmentDuration.Observe(s) }
func RecordLevelTransition(level string)   { global.levelTransitions.WithLabelValues(level).Inc() }
func UpdateFellowsByLevel(level string, n int) {
	global.fellowsByLevel.WithLabelValues(level).Set(float64(n))
}
func UpdateAssessmentQueueSize(n int) { global.assessmentQueueSize.Set(float64(n)) }

func RecordWarningDrafted(level string) { global.warningsDrafted.WithLabelValues(level).Inc() }
func RecordWarningIssued(level string)  { global.warningsIssued.WithLabelValues(level).Inc() }
func RecordWarningAcknowledged()        { global.warningsAcknowledged.Inc() }

func RecordDrafterRequest()           { global.drafterRequests.Inc() }
func RecordDrafterError()             { global.drafterErrors.Inc() }
func ObserveDrafterLatency(s float64) { global.drafterLatency.Observe(s) }
func RecordNotifyEvent(kind string)   { global.notifyEvents.WithLabelValues(kind).Inc() }
func RecordNotifyError()              { global.notifyErrors.Inc() }

func RecordHTTPRequest(endpoint, status string) {
	global.httpRequests.WithLabelValues(endpoint, status).Inc()
}
func ObserveHTTPDuration(endpoint string, s float64) {
	global.httpRequestDuration.WithLabelValues(endpoint).Observe(s)
}
