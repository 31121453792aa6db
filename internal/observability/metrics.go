package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "roadmap"

// Metrics records model calls, cache lookups and generation outcomes. It
// satisfies both llm.Observer and roadmap.Recorder. A nil *Metrics records nothing.
type Metrics struct {
	llmRequests        *prometheus.CounterVec
	llmDuration        prometheus.Histogram
	cacheLookups       *prometheus.CounterVec
	generations        *prometheus.CounterVec
	validationWarnings prometheus.Counter
	repairs            *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Model calls by outcome.",
		}, []string{"outcome"}),
		llmDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Duration of model calls, including the retry.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Roadmap cache lookups by result.",
		}, []string{"result"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Roadmap generations by outcome.",
		}, []string{"outcome"}),
		validationWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_warnings_total",
			Help:      "Content validation warnings reported on generated roadmaps.",
		}),
		repairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repairs_total",
			Help:      "Resources replaced or completed by repair, by reason.",
		}, []string{"reason"}),
	}

	for _, c := range []prometheus.Collector{
		m.llmRequests, m.llmDuration, m.cacheLookups,
		m.generations, m.validationWarnings, m.repairs,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveLLMCall counts one gateway call and its latency.
func (m *Metrics) ObserveLLMCall(_ string, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(outcome).Inc()
	m.llmDuration.Observe(elapsed.Seconds())
}

// ObserveCacheLookup counts a roadmap cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveGeneration counts a finished generation.
func (m *Metrics) ObserveGeneration(outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
}

// ObserveValidationWarnings adds n content warnings.
func (m *Metrics) ObserveValidationWarnings(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.validationWarnings.Add(float64(n))
}

// ObserveRepairs adds n repair actions for reason.
func (m *Metrics) ObserveRepairs(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.repairs.WithLabelValues(reason).Add(float64(n))
}
