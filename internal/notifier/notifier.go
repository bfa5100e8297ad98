package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
	"github.com/pfrederiksen/event-announcer/internal/config"
	"github.com/pfrederiksen/event-announcer/internal/telegram"
)

// Notifier defines the interface for posting an announcement somewhere
type Notifier interface {
	// Notify posts the announcement
	Notify(ctx context.Context, a *announcement.Announcement) error
	// Name identifies the sink in logs and metrics
	Name() string
}

// FromConfig creates a notifier for every mirror whose credentials are set
func FromConfig(cfg config.Mirrors) ([]Notifier, error) {
	var out []Notifier

	if cfg.Telegram.Enabled() {
		client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("creating telegram mirror: %w", err)
		}
		out = append(out, NewTelegramNotifier(client))
	}

	if cfg.Twitter.Enabled() {
		tw, err := NewTwitterNotifier(cfg.Twitter)
		if err != nil {
			return nil, fmt.Errorf("creating twitter mirror: %w", err)
		}
		out = append(out, tw)
	}

	return out, nil
}

// FormatText renders an announcement as plain text, one field per block
func FormatText(a *announcement.Announcement) string {
	var b strings.Builder

	b.WriteString(a.Title)
	b.WriteString("\n")
	b.WriteString(a.Description)
	b.WriteString("\n")

	for _, f := range a.Fields {
		if f.Name == announcement.FieldName || f.Name == announcement.FieldDescription {
			b.WriteString(fmt.Sprintf("\n%s\n%s\n", f.Name, f.Value))
			continue
		}
		if f.Name == announcement.FieldUTC {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", f.Name, f.Value))
	}

	return b.String()
}
