package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTurn(64, 20*time.Millisecond)
	m.ObserveTurn(64, 30*time.Millisecond)
	m.ObserveTurn(9, time.Millisecond)
	m.GenerationFallback("timeout")
	m.PersistenceFailure()
	m.ErrorResponse()
	m.MetadataLookup("static")
	m.SetCacheEntries(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Turns.WithLabelValues("64")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("9")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationFallbacks.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistenceFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorResponses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MetadataLookups.WithLabelValues("static")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CacheEntries))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TurnLatency))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTurn(1, time.Second)
		m.GenerationFallback("error")
		m.PersistenceFailure()
		m.ErrorResponse()
		m.MetadataLookup("cache")
		m.SetCacheEntries(1)
	})
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
