package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/roadmap-generator/internal/llm"
	"github.com/jonathan/roadmap-generator/internal/roadmap"
)

var (
	_ llm.Observer     = (*Metrics)(nil)
	_ roadmap.Recorder = (*Metrics)(nil)
)

func TestMetrics_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveLLMCall("generate_roadmap", "ok", 2*time.Second)
	m.ObserveLLMCall("generate_roadmap", "rate_limited", time.Second)
	m.ObserveCacheLookup(true)
	m.ObserveCacheLookup(false)
	m.ObserveCacheLookup(false)
	m.ObserveGeneration(roadmap.OutcomeOK)
	m.ObserveValidationWarnings(3)
	m.ObserveValidationWarnings(0)
	m.ObserveRepairs("video", 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.validationWarnings))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.repairs.WithLabelValues("video")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.llmDuration))
}

func TestMetrics_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLLMCall("x", "ok", time.Second)
		m.ObserveCacheLookup(true)
		m.ObserveGeneration("ok")
		m.ObserveValidationWarnings(1)
		m.ObserveRepairs("video", 1)
	})
}
