package notifier

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
	"github.com/pfrederiksen/event-announcer/internal/config"
	"github.com/pfrederiksen/event-announcer/internal/timezone"
)

// prefixTranslator returns "[FR] text" style translations
type prefixTranslator struct {
	fail map[string]bool
}

func (p prefixTranslator) Name() string { return "prefix" }

func (p prefixTranslator) Translate(_ context.Context, texts []string, target, _ string) ([]string, error) {
	if p.fail[target] {
		return nil, errors.New("provider down")
	}
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = "[" + target + "] " + text
	}
	return out, nil
}

func buildAnnouncement(t *testing.T, name string, fail ...string) *announcement.Announcement {
	t.Helper()

	conv, err := timezone.NewConverter()
	require.NoError(t, err)

	tr := prefixTranslator{fail: map[string]bool{}}
	for _, code := range fail {
		tr.fail[code] = true
	}

	b, err := announcement.NewBuilder(conv, tr)
	require.NoError(t, err)

	a, err := b.Build(context.Background(), announcement.Submission{
		Name:        name,
		Description: "Bring potions",
		Date:        "2025-03-01",
		Time:        "18:00",
	})
	require.NoError(t, err)
	return a
}

func TestFormatText(t *testing.T) {
	text := FormatText(buildAnnouncement(t, "Raid Night"))

	lines := strings.Split(text, "\n")
	assert.Equal(t, "Raid Night", lines[0])
	assert.Equal(t, "Original language: English", lines[1])

	for _, want := range []string{
		"Date & Time (UTC): Saturday, 2025-03-01 18:00 UTC",
		"Pacific Time: Saturday, 2025-03-01 10:00",
		"Australian Eastern Time: Sunday, 2025-03-02 05:00",
		"Event Name\n**English** (English): Raid Night",
		"Description\n**English** (English): Bring potions",
		"**French** (français): [FR] Raid Night",
	} {
		assert.Contains(t, text, want)
	}
}

func TestDryRunNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewDryRunNotifier(&buf)
	a := buildAnnouncement(t, "Raid Night")

	require.NoError(t, n.Notify(context.Background(), a))

	out := buf.String()
	assert.Equal(t, "dry-run", n.Name())
	assert.Contains(t, out, "--- Announcement "+a.ID.String()+" ---")
	assert.Contains(t, out, "--- Tweet ---")
	assert.Contains(t, out, "Pacific Time: Saturday, 2025-03-01 10:00")
	assert.Contains(t, out, "(Length: ")
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.Mirrors
		names []string
	}{
		{
			name: "nothing configured",
			cfg:  config.Mirrors{},
		},
		{
			name: "partial telegram credentials are ignored",
			cfg:  config.Mirrors{Telegram: config.TelegramMirror{BotToken: "t"}},
		},
		{
			name: "telegram",
			cfg: config.Mirrors{Telegram: config.TelegramMirror{
				BotToken: "t",
				ChatID:   "c",
			}},
			names: []string{"telegram"},
		},
		{
			name: "both",
			cfg: config.Mirrors{
				Telegram: config.TelegramMirror{BotToken: "t", ChatID: "c"},
				Twitter: config.TwitterMirror{
					APIKey:       "k",
					APISecret:    "s",
					AccessToken:  "at",
					AccessSecret: "as",
				},
			},
			names: []string{"telegram", "twitter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromConfig(tt.cfg)
			require.NoError(t, err)

			var names []string
			for _, n := range got {
				names = append(names, n.Name())
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

type fakeSender struct {
	text string
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, text string) error {
	f.text = text
	return f.err
}

func TestTelegramNotifier(t *testing.T) {
	a := buildAnnouncement(t, "Raid Night", "DE")

	sender := &fakeSender{}
	n := &TelegramNotifier{client: sender}

	require.NoError(t, n.Notify(context.Background(), a))
	assert.Equal(t, "telegram", n.Name())
	assert.Contains(t, sender.text, "<b>Raid Night</b>")
	assert.Contains(t, sender.text, "<b>German</b>: <i>translation unavailable</i>")

	sender.err = errors.New("chat not found")
	err := n.Notify(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
