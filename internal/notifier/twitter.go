package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
	"github.com/pfrederiksen/event-announcer/internal/config"
)

const maxTweetLength = 280

// TwitterNotifier posts a short summary of an announcement to Twitter
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a Twitter notifier from OAuth1 credentials
func NewTwitterNotifier(cfg config.TwitterMirror) (*TwitterNotifier, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing required Twitter credentials")
	}

	oauthConfig := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
	httpClient := oauthConfig.Client(oauth1.NoContext, token)

	return newTwitterNotifier(httpClient), nil
}

func newTwitterNotifier(httpClient *http.Client) *TwitterNotifier {
	return &TwitterNotifier{client: twitter.NewClient(httpClient)}
}

// Name implements Notifier
func (n *TwitterNotifier) Name() string {
	return "twitter"
}

// Notify posts one tweet for the announcement
func (n *TwitterNotifier) Notify(ctx context.Context, a *announcement.Announcement) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, err := n.client.Statuses.Update(formatTweet(a), nil)
	if err != nil {
		return fmt.Errorf("failed to post tweet for announcement %s: %w", a.ID, err)
	}
	return nil
}

// formatTweet summarises an announcement: the title, the UTC start and as
// many translated names as fit in a tweet.
func formatTweet(a *announcement.Announcement) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📣 %s\n", a.Title))
	b.WriteString(fmt.Sprintf("🕒 %s\n", a.Start.Format(announcement.UTCLayout)))

	tweet := b.String()
	for _, tr := range a.Translations {
		if tr.Identity || tr.Unavailable {
			continue
		}
		line := fmt.Sprintf("%s: %s\n", tr.Language.Code, tr.Name)
		if runeLen(tweet)+runeLen(line) > maxTweetLength {
			break
		}
		tweet += line
	}
	tweet = strings.TrimRight(tweet, "\n")

	if runeLen(tweet) > maxTweetLength {
		runes := []rune(tweet)
		tweet = string(runes[:maxTweetLength-3]) + "..."
	}

	return tweet
}

func runeLen(s string) int {
	return len([]rune(s))
}
