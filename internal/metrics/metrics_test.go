package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCommand(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCommand(OutcomeSuccess)
	m.ObserveCommand(OutcomeSuccess)
	m.ObserveCommand(OutcomeValidation)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commands.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues(OutcomeValidation)))
}

func TestObserveTranslation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveTranslation("deepl", nil, 120*time.Millisecond)
	m.ObserveTranslation("deepl", errors.New("quota"), 2*time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.translations.WithLabelValues("deepl", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.translations.WithLabelValues("deepl", OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.translationDuration))
}

func TestObserveDeliveryAndBuild(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDelivery("discord", nil)
	m.ObserveDelivery("telegram", errors.New("chat not found"))
	m.ObserveBuild(300 * time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("discord", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("telegram", OutcomeError)))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "event_announcer_build_duration_seconds")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCommand(OutcomeSuccess)
		m.ObserveTranslation("deepl", nil, time.Second)
		m.ObserveDelivery("discord", nil)
		m.ObserveBuild(time.Second)
	})
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
