package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the turn-processing Prometheus metrics. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Turns               *prometheus.CounterVec
	TurnLatency         prometheus.Histogram
	GenerationFallbacks *prometheus.CounterVec
	PersistenceFailures prometheus.Counter
	ErrorResponses      prometheus.Counter
	MetadataLookups     *prometheus.CounterVec
	CacheEntries        prometheus.Gauge
}

// New registers the metrics on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Turns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "emostate_turns_total",
			Help: "Turns processed, by detected state",
		}, []string{"state_id"}),

		TurnLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "emostate_turn_duration_seconds",
			Help:    "Turn processing latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}),

		GenerationFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "emostate_generation_fallbacks_total",
			Help: "Turns answered with a static fallback phrase, by reason",
		}, []string{"reason"}), // "timeout" | "error"

		PersistenceFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "emostate_persistence_failures_total",
			Help: "Turn records the persistence store failed to save",
		}),

		ErrorResponses: f.NewCounter(prometheus.CounterOpts{
			Name: "emostate_error_responses_total",
			Help: "Turns that ended in the standardized error response",
		}),

		MetadataLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "emostate_metadata_lookups_total",
			Help: "State metadata resolutions, by resolving step",
		}, []string{"source"}),

		CacheEntries: f.NewGauge(prometheus.GaugeOpts{
			Name: "emostate_metadata_cache_entries",
			Help: "Entries in the state metadata cache",
		}),
	}
}

func (m *Metrics) ObserveTurn(stateID int, d time.Duration) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(strconv.Itoa(stateID)).Inc()
	m.TurnLatency.Observe(d.Seconds())
}

func (m *Metrics) GenerationFallback(reason string) {
	if m == nil {
		return
	}
	m.GenerationFallbacks.WithLabelValues(reason).Inc()
}

func (m *Metrics) PersistenceFailure() {
	if m == nil {
		return
	}
	m.PersistenceFailures.Inc()
}

func (m *Metrics) ErrorResponse() {
	if m == nil {
		return
	}
	m.ErrorResponses.Inc()
}

func (m *Metrics) MetadataLookup(source string) {
	if m == nil {
		return
	}
	m.MetadataLookups.WithLabelValues(source).Inc()
}

func (m *Metrics) SetCacheEntries(n int) {
	if m == nil {
		return
	}
	m.CacheEntries.Set(float64(n))
}
