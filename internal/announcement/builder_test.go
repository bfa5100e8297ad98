package announcement

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/event-announcer/internal/apperror"
	"github.com/pfrederiksen/event-announcer/internal/timezone"
)

// fakeTranslator prefixes every text with the target code and records calls
type fakeTranslator struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	delay map[string]time.Duration
}

func (f *fakeTranslator) Name() string { return "fake" }

func (f *fakeTranslator) Translate(ctx context.Context, texts []string, target, source string) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, target)
	f.mu.Unlock()

	if d := f.delay[target]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, apperror.Wrap(apperror.KindTranslationUnavailable, "timed out", ctx.Err())
		}
	}
	if f.fail[target] {
		return nil, apperror.New(apperror.KindTranslationUnavailable, "provider down", target)
	}

	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = "[" + target + "] " + text
	}
	return out, nil
}

func (f *fakeTranslator) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestBuilder(t *testing.T, tr *fakeTranslator, opts ...Option) *Builder {
	t.Helper()
	conv, err := timezone.NewConverter()
	require.NoError(t, err)
	b, err := NewBuilder(conv, tr, opts...)
	require.NoError(t, err)
	return b
}

func raidNight() Submission {
	return Submission{
		Name:        "Raid Night",
		Description: "Bring potions",
		Date:        "2025-03-01",
		Time:        "18:00",
	}
}

func codes(trs []Translation) []string {
	out := make([]string, 0, len(trs))
	for _, tr := range trs {
		out = append(out, tr.Language.Code)
	}
	return out
}

func TestBuild_RaidNight(t *testing.T) {
	tr := &fakeTranslator{}
	b := newTestBuilder(t, tr)

	a, err := b.Build(context.Background(), raidNight())
	require.NoError(t, err)

	assert.Equal(t, "Raid Night", a.Title)
	assert.Equal(t, "EN", a.Source.Code)
	assert.Equal(t, time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), a.Start)
	require.Len(t, a.Times, 7)

	// one call per non-source language, in table order, never for EN
	assert.Equal(t, []string{"FR", "PT", "DE", "ES", "JA"}, tr.Calls())

	en, ok := a.Translation("EN")
	require.True(t, ok)
	assert.True(t, en.Identity)
	assert.Equal(t, "Raid Night", en.Name)
	assert.Equal(t, "Bring potions", en.Description)

	fr, ok := a.Translation("fr")
	require.True(t, ok)
	assert.Equal(t, "[FR] Raid Night", fr.Name)
	assert.Equal(t, "[FR] Bring potions", fr.Description)

	require.Len(t, a.Fields, 10)
	assert.Equal(t, Field{Name: FieldUTC, Value: "Saturday, 2025-03-01 18:00 UTC"}, a.Fields[0])
	assert.Equal(t, Field{Name: "Pacific Time", Value: "Saturday, 2025-03-01 10:00", Inline: true}, a.Fields[1])
	assert.Equal(t, Field{Name: "Australian Eastern Time", Value: "Sunday, 2025-03-02 05:00", Inline: true}, a.Fields[7])
	assert.Equal(t, FieldName, a.Fields[8].Name)
	assert.Equal(t, FieldDescription, a.Fields[9].Name)

	names := strings.Split(a.Fields[8].Value, "\n")
	require.Len(t, names, 6)
	assert.Equal(t, "**English** (English): Raid Night", names[0])
	assert.Equal(t, "**French** (français): [FR] Raid Night", names[1])
	assert.True(t, strings.HasSuffix(names[5], ": [JA] Raid Night"))
}

func TestBuild_SourceLanguage(t *testing.T) {
	tr := &fakeTranslator{}
	b := newTestBuilder(t, tr)

	s := raidNight()
	s.Name = "Soirée raid"
	s.SourceLanguage = "French"

	a, err := b.Build(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, "FR", a.Source.Code)
	assert.NotContains(t, tr.Calls(), "FR")
	assert.Contains(t, tr.Calls(), "EN")
	assert.Equal(t, []string{"EN", "FR", "PT", "DE", "ES", "JA"}, codes(a.Translations))
	assert.True(t, a.Translations[1].Identity)
	assert.Equal(t, "Soirée raid", a.Translations[1].Name)
	assert.Contains(t, a.Description, "French")
}

func TestBuild_MissingDate(t *testing.T) {
	tr := &fakeTranslator{}
	b := newTestBuilder(t, tr)

	s := raidNight()
	s.Date = ""

	a, err := b.Build(context.Background(), s)
	require.Error(t, err)
	assert.Nil(t, a)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Contains(t, apperror.DetailsOf(err), "date is required")
	assert.Empty(t, tr.Calls())
}

func TestBuild_FailurePolicies(t *testing.T) {
	tests := []struct {
		name      string
		policy    FailurePolicy
		wantCodes []string
		wantKind  apperror.Kind
	}{
		{
			name:      "placeholder keeps the language",
			policy:    PolicyPlaceholder,
			wantCodes: []string{"EN", "FR", "PT", "DE", "ES", "JA"},
		},
		{
			name:      "omit drops the language",
			policy:    PolicyOmit,
			wantCodes: []string{"EN", "FR", "PT", "ES", "JA"},
		},
		{
			name:     "abort fails the build",
			policy:   PolicyAbort,
			wantKind: apperror.KindBuild,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTranslator{fail: map[string]bool{"DE": true}}
			b := newTestBuilder(t, tr, WithPolicy(tt.policy))

			a, err := b.Build(context.Background(), raidNight())
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperror.KindOf(err))
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCodes, codes(a.Translations))

			for _, f := range a.Fields {
				assert.NotContains(t, f.Value, "undefined")
				assert.NotContains(t, f.Value, ": \n")
			}
		})
	}
}

func TestBuild_PlaceholderMarker(t *testing.T) {
	tr := &fakeTranslator{fail: map[string]bool{"PT": true}}
	b := newTestBuilder(t, tr)

	a, err := b.Build(context.Background(), raidNight())
	require.NoError(t, err)

	pt, ok := a.Translation("PT")
	require.True(t, ok)
	assert.True(t, pt.Unavailable)
	assert.Equal(t, Placeholder, pt.Name)
	assert.Equal(t, Placeholder, pt.Description)
	assert.Contains(t, a.Fields[8].Value, "**Portuguese** (português): "+Placeholder)

	// the other languages are unaffected
	es, _ := a.Translation("ES")
	assert.Equal(t, "[ES] Raid Night", es.Name)
}

func TestBuild_TranslationTimeout(t *testing.T) {
	tr := &fakeTranslator{delay: map[string]time.Duration{"JA": time.Second}}
	b := newTestBuilder(t, tr, WithTimeout(20*time.Millisecond))

	a, err := b.Build(context.Background(), raidNight())
	require.NoError(t, err)

	ja, ok := a.Translation("JA")
	require.True(t, ok)
	assert.True(t, ja.Unavailable)
}

func TestBuild_ParallelKeepsTableOrder(t *testing.T) {
	// later languages finish first
	tr := &fakeTranslator{delay: map[string]time.Duration{
		"FR": 60 * time.Millisecond,
		"PT": 45 * time.Millisecond,
		"DE": 30 * time.Millisecond,
		"ES": 15 * time.Millisecond,
	}}
	b := newTestBuilder(t, tr, WithWorkers(5))

	a, err := b.Build(context.Background(), raidNight())
	require.NoError(t, err)

	assert.Len(t, tr.Calls(), 5)
	assert.Equal(t, []string{"EN", "FR", "PT", "DE", "ES", "JA"}, codes(a.Translations))

	names := strings.Split(a.Fields[8].Value, "\n")
	require.Len(t, names, 6)
	assert.Contains(t, names[1], "[FR]")
	assert.Contains(t, names[4], "[ES]")
}

func TestBuild_ParallelAbort(t *testing.T) {
	tr := &fakeTranslator{fail: map[string]bool{"FR": true}}
	b := newTestBuilder(t, tr, WithWorkers(3), WithPolicy(PolicyAbort))

	_, err := b.Build(context.Background(), raidNight())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindBuild))
}

func TestBuild_Idempotent(t *testing.T) {
	b := newTestBuilder(t, &fakeTranslator{})

	first, err := b.Build(context.Background(), raidNight())
	require.NoError(t, err)
	second, err := b.Build(context.Background(), raidNight())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Times, second.Times)
	assert.Equal(t, first.Fields[:8], second.Fields[:8])

	a, _ := first.Translation("EN")
	c, _ := second.Translation("EN")
	assert.Equal(t, a, c)
}

func TestNewBuilder_Errors(t *testing.T) {
	conv, err := timezone.NewConverter()
	require.NoError(t, err)

	_, err = NewBuilder(nil, &fakeTranslator{})
	assert.True(t, apperror.IsKind(err, apperror.KindConfiguration))

	_, err = NewBuilder(conv, nil)
	assert.True(t, apperror.IsKind(err, apperror.KindConfiguration))

	_, err = NewBuilder(conv, &fakeTranslator{}, WithPolicy("retry"))
	assert.True(t, apperror.IsKind(err, apperror.KindConfiguration))

	_, err = NewBuilder(conv, &fakeTranslator{}, WithDefaultLanguage("KL"))
	assert.True(t, apperror.IsKind(err, apperror.KindConfiguration))
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    FailurePolicy
		wantErr bool
	}{
		{in: "", want: PolicyPlaceholder},
		{in: "placeholder", want: PolicyPlaceholder},
		{in: " OMIT ", want: PolicyOmit},
		{in: "abort", want: PolicyAbort},
		{in: "retry", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
