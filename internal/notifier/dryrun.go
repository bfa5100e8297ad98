package notifier

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
)

// DryRunNotifier prints what would be posted without posting it
type DryRunNotifier struct {
	w io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to w, or stdout if nil
func NewDryRunNotifier(w io.Writer) *DryRunNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &DryRunNotifier{w: w}
}

// Name implements Notifier
func (n *DryRunNotifier) Name() string {
	return "dry-run"
}

// Notify prints the announcement and the tweet that would be posted
func (n *DryRunNotifier) Notify(_ context.Context, a *announcement.Announcement) error {
	tweet := formatTweet(a)

	if _, err := fmt.Fprintf(n.w, "--- Announcement %s ---\n%s\n", a.ID, FormatText(a)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(n.w, "--- Tweet ---\n%s\n\n(Length: %d characters)\n", tweet, runeLen(tweet))
	return err
}
