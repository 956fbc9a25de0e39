// Package metrics exposes Prometheus collectors for the correction service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tespell/internal/corrector"
)

// Lookup outcomes.
const (
	OutcomeKnown = "known"
	OutcomeEdit1 = "edit1"
	OutcomeEdit2 = "edit2"
	OutcomeNone  = "none"
)

type Metrics struct {
	Lookups        *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
	ModelWords     prometheus.Gauge
	ModelReloads   *prometheus.CounterVec
	Requests       *prometheus.CounterVec
}

// New registers the collectors with reg. Pass a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tespell",
			Name:      "lookups_total",
			Help:      "Word lookups by outcome.",
		}, []string{"outcome"}),
		LookupDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tespell",
			Name:      "lookup_duration_seconds",
			Help:      "Time spent generating and ranking candidates.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"outcome"}),
		ModelWords: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tespell",
			Name:      "model_words",
			Help:      "Distinct words in the loaded model.",
		}),
		ModelReloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tespell",
			Name:      "model_reloads_total",
			Help:      "Model reloads by result.",
		}, []string{"result"}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tespell",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}

// Outcome classifies the result of Candidates.
func Outcome(s []corrector.RankedSuggestion) string {
	if len(s) == 0 {
		return OutcomeNone
	}
	switch s[0].Distance {
	case 0:
		return OutcomeKnown
	case 1:
		return OutcomeEdit1
	default:
		return OutcomeEdit2
	}
}

// ObserveLookup records one Candidates call that started at start.
func (m *Metrics) ObserveLookup(s []corrector.RankedSuggestion, start time.Time) {
	if m == nil {
		return
	}
	o := Outcome(s)
	m.Lookups.WithLabelValues(o).Inc()
	m.LookupDuration.WithLabelValues(o).Observe(time.Since(start).Seconds())
}
