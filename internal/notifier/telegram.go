package notifier

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
	"github.com/pfrederiksen/event-announcer/internal/telegram"
)

type messageSender interface {
	SendMessage(ctx context.Context, text string) error
}

// TelegramNotifier mirrors announcements to a Telegram chat
type TelegramNotifier struct {
	client messageSender
}

// NewTelegramNotifier creates a Telegram notifier
func NewTelegramNotifier(client *telegram.Client) *TelegramNotifier {
	return &TelegramNotifier{client: client}
}

// Name implements Notifier
func (n *TelegramNotifier) Name() string {
	return "telegram"
}

// Notify sends the HTML rendering of the announcement
func (n *TelegramNotifier) Notify(ctx context.Context, a *announcement.Announcement) error {
	if err := n.client.SendMessage(ctx, telegram.FormatAnnouncement(a)); err != nil {
		return fmt.Errorf("failed to send telegram message for announcement %s: %w", a.ID, err)
	}
	return nil
}
