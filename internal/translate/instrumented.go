package translate

import (
	"context"
	"log/slog"
	"time"

	"github.com/pfrederiksen/event-announcer/internal/metrics"
)

// Instrumented records metrics and debug logs around another Translator
type Instrumented struct {
	next    Translator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// WithMetrics wraps t so every call is timed and counted
func WithMetrics(t Translator, m *metrics.Metrics, logger *slog.Logger) *Instrumented {
	return &Instrumented{
		next:    t,
		metrics: m,
		logger:  logger.With("component", "translate", "provider", t.Name()),
	}
}

// Name implements Translator
func (i *Instrumented) Name() string {
	return i.next.Name()
}

// Translate implements Translator
func (i *Instrumented) Translate(ctx context.Context, texts []string, target, source string) ([]string, error) {
	start := time.Now()
	out, err := i.next.Translate(ctx, texts, target, source)
	elapsed := time.Since(start)

	i.metrics.ObserveTranslation(i.next.Name(), err, elapsed)
	if err != nil {
		i.logger.Warn("translation failed",
			"target", target,
			"source", source,
			"duration", elapsed,
			"error", err,
		)
		return nil, err
	}

	i.logger.Debug("translation complete",
		"target", target,
		"source", source,
		"texts", len(texts),
		"duration", elapsed,
	)
	return out, nil
}
