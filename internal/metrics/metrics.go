// Package metrics exposes Prometheus collectors for commands, translations
// and deliveries.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "event_announcer"

// Command outcomes
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeBuild      = "build_error"
	OutcomeDelivery   = "delivery_error"
	OutcomeError      = "error"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	commands            *prometheus.CounterVec
	translations        *prometheus.CounterVec
	translationDuration *prometheus.HistogramVec
	deliveries          *prometheus.CounterVec
	buildDuration       prometheus.Summary
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Slash command invocations by outcome",
		}, []string{"outcome"}),
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Translation provider calls by provider and outcome",
		}, []string{"provider", "outcome"}),
		translationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "translation_duration_seconds",
			Help:      "Latency of translation provider calls",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"provider"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Announcement deliveries by sink and outcome",
		}, []string{"sink", "outcome"}),
		buildDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Time spent building one announcement",
		}),
	}

	reg.MustRegister(m.commands, m.translations, m.translationDuration, m.deliveries, m.buildDuration)

	return m
}

// NewRegistry returns a registry with the process and Go runtime collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return reg
}

// ObserveCommand counts one slash command invocation
func (m *Metrics) ObserveCommand(outcome string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(outcome).Inc()
}

// ObserveTranslation counts one provider call and records its latency
func (m *Metrics) ObserveTranslation(provider string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.translations.WithLabelValues(provider, outcome).Inc()
	m.translationDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveDelivery counts one delivery attempt to a sink
func (m *Metrics) ObserveDelivery(sink string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.deliveries.WithLabelValues(sink, outcome).Inc()
}

// ObserveBuild records how long one announcement took to build
func (m *Metrics) ObserveBuild(d time.Duration) {
	if m == nil {
		return
	}
	m.buildDuration.Observe(d.Seconds())
}
