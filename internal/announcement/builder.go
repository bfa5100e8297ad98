package announcement

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/event-announcer/internal/apperror"
	"github.com/pfrederiksen/event-announcer/internal/language"
	"github.com/pfrederiksen/event-announcer/internal/logger"
	"github.com/pfrederiksen/event-announcer/internal/metrics"
	"github.com/pfrederiksen/event-announcer/internal/timezone"
	"github.com/pfrederiksen/event-announcer/internal/translate"
)

// DefaultTranslationTimeout bounds a single provider call
const DefaultTranslationTimeout = 5 * time.Second

// Builder assembles announcements. It is safe for concurrent use; a Build
// shares no mutable state with any other Build.
type Builder struct {
	converter       *timezone.Converter
	translator      translate.Translator
	languages       []language.Language
	defaultLanguage string
	policy          FailurePolicy
	workers         int
	timeout         time.Duration
	logger          *slog.Logger
	metrics         *metrics.Metrics
}

// Option configures a Builder
type Option func(*Builder)

// WithLanguages replaces the language table used for listings
func WithLanguages(langs []language.Language) Option {
	return func(b *Builder) {
		b.languages = append([]language.Language(nil), langs...)
	}
}

// WithDefaultLanguage sets the source language for submissions naming none
func WithDefaultLanguage(code string) Option {
	return func(b *Builder) { b.defaultLanguage = code }
}

// WithPolicy sets what happens when a translation fails
func WithPolicy(p FailurePolicy) Option {
	return func(b *Builder) { b.policy = p }
}

// WithWorkers sets how many translation calls may run at once.
// 1 keeps calls strictly sequential in table order.
func WithWorkers(n int) Option {
	return func(b *Builder) { b.workers = n }
}

// WithTimeout bounds each translation call
func WithTimeout(d time.Duration) Option {
	return func(b *Builder) { b.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Builder) { b.metrics = m }
}

// NewBuilder creates a Builder around a converter and a translator
func NewBuilder(converter *timezone.Converter, translator translate.Translator, opts ...Option) (*Builder, error) {
	if converter == nil {
		return nil, apperror.New(apperror.KindConfiguration, "time converter is required")
	}
	if translator == nil {
		return nil, apperror.New(apperror.KindConfiguration, "translator is required")
	}

	b := &Builder{
		converter:       converter,
		translator:      translator,
		languages:       language.All(),
		defaultLanguage: language.DefaultCode,
		policy:          PolicyPlaceholder,
		workers:         1,
		timeout:         DefaultTranslationTimeout,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if _, err := ParsePolicy(string(b.policy)); err != nil {
		return nil, apperror.Wrap(apperror.KindConfiguration, "invalid builder options", err)
	}
	if _, ok := language.Lookup(b.defaultLanguage); !ok {
		return nil, apperror.New(apperror.KindConfiguration, "unsupported default language", b.defaultLanguage)
	}
	if b.workers < 1 {
		b.workers = 1
	}
	if b.timeout <= 0 {
		b.timeout = DefaultTranslationTimeout
	}
	b.logger = b.logger.With("component", "builder")

	return b, nil
}

// Build validates a submission and assembles its announcement.
//
// Errors are apperror kinds: validation_error for bad input,
// invalid_timestamp if the date and time do not form an instant, and
// build_failed when a translation fails under PolicyAbort.
func (b *Builder) Build(ctx context.Context, s Submission) (*Announcement, error) {
	started := time.Now()
	defer func() { b.metrics.ObserveBuild(time.Since(started)) }()

	s = s.Normalize(b.defaultLanguage)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	src := language.MustLookup(s.SourceLanguage)

	start, err := timezone.ParseUTC(s.Date, s.Time)
	if err != nil {
		return nil, err
	}

	a := &Announcement{
		ID:          uuid.New(),
		Title:       s.Name,
		Description: describe(src),
		Source:      src,
		Start:       start,
		Times:       b.converter.ConvertTime(start),
		ChannelID:   s.ChannelID,
	}

	log := b.logger.With("announcement_id", a.ID.String(), "source", src.Code)

	translations, err := b.translateAll(ctx, log, s, src)
	if err != nil {
		return nil, err
	}
	a.Translations = translations
	a.Fields = a.fields()

	log.Info("announcement built",
		"title", a.Title,
		"start", a.Start,
		"languages", len(a.Translations),
	)
	return a, nil
}

// translateAll fills one slot per table language and returns the computed
// entries in table order.
func (b *Builder) translateAll(ctx context.Context, log *slog.Logger, s Submission, src language.Language) ([]Translation, error) {
	slots := make([]*Translation, len(b.languages))

	var targets []int
	for i, l := range b.languages {
		if l.Code == src.Code {
			slots[i] = &Translation{
				Language:    l,
				Name:        s.Name,
				Description: s.Description,
				Identity:    true,
			}
			continue
		}
		targets = append(targets, i)
	}

	if b.workers == 1 {
		for _, i := range targets {
			tr, err := b.translateOne(ctx, log, s, b.languages[i], src)
			if err != nil {
				return nil, err
			}
			slots[i] = tr
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.workers)
		for _, i := range targets {
			i := i
			g.Go(func() error {
				tr, err := b.translateOne(gctx, log, s, b.languages[i], src)
				if err != nil {
					return err
				}
				slots[i] = tr
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	out := make([]Translation, 0, len(slots))
	for _, tr := range slots {
		if tr != nil {
			out = append(out, *tr)
		}
	}
	return out, nil
}

// translateOne makes the single provider call for one target language and
// applies the failure policy. A nil entry with a nil error means omitted.
func (b *Builder) translateOne(ctx context.Context, log *slog.Logger, s Submission, target, src language.Language) (*Translation, error) {
	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	out, err := b.translator.Translate(callCtx, []string{s.Name, s.Description}, target.Code, src.Code)
	if err == nil && len(out) < 2 {
		err = apperror.New(apperror.KindTranslationUnavailable, "provider returned too few translations", target.Code)
	}
	if err == nil {
		return &Translation{Language: target, Name: out[0], Description: out[1]}, nil
	}

	log.Warn("translation unavailable",
		"target", target.Code,
		"policy", string(b.policy),
		"error", err,
	)

	switch b.policy {
	case PolicyAbort:
		return nil, apperror.Wrap(apperror.KindBuild, "translation to "+target.Name+" failed", err)
	case PolicyOmit:
		return nil, nil
	default:
		return &Translation{
			Language:    target,
			Name:        Placeholder,
			Description: Placeholder,
			Unavailable: true,
		}, nil
	}
}
