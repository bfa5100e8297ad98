package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/event-announcer/internal/apperror"
	"github.com/pfrederiksen/event-announcer/internal/config"
)

// Translator translates texts from one language into another.
// Language codes are the two-letter table codes ("EN", "FR"); an empty
// source lets the provider detect it.
type Translator interface {
	Translate(ctx context.Context, texts []string, target, source string) ([]string, error)
	Name() string
}

// Text translates a single text
func Text(ctx context.Context, t Translator, text, target, source string) (string, error) {
	out, err := t.Translate(ctx, []string{text}, target, source)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// New creates the provider named in cfg
func New(cfg config.Translation) (Translator, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderDeepL:
		d, err := NewDeepL(cfg.APIKey, cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.ProviderGoogleWeb:
		return NewGoogleWeb(cfg.BaseURL, cfg.Timeout), nil
	default:
		return nil, apperror.New(apperror.KindConfiguration, "unknown translation provider", cfg.Provider)
	}
}

func unavailable(provider, target string, err error) error {
	return apperror.Wrap(apperror.KindTranslationUnavailable,
		fmt.Sprintf("%s translation to %s failed", provider, target), err)
}

// checkResults rejects short or blank result lists
func checkResults(texts, results []string) error {
	if len(results) < len(texts) {
		return fmt.Errorf("provider returned %d translations for %d texts", len(results), len(texts))
	}
	for i := range texts {
		if strings.TrimSpace(texts[i]) != "" && strings.TrimSpace(results[i]) == "" {
			return fmt.Errorf("provider returned an empty translation for text %d", i)
		}
	}
	return nil
}
