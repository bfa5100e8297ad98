package telegram

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
)

var strict = bluemonday.StrictPolicy()

// escape strips any markup from user text and escapes what is left
func escape(s string) string {
	return strict.Sanitize(s)
}

// FormatAnnouncement formats an announcement as a Telegram HTML message
func FormatAnnouncement(a *announcement.Announcement) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("📣 <b>%s</b>\n", escape(a.Title)))
	msg.WriteString(fmt.Sprintf("<i>%s</i>\n\n", escape(a.Description)))

	msg.WriteString(fmt.Sprintf("🕒 <b>%s</b>\n", a.Start.Format(announcement.UTCLayout)))
	for _, lt := range a.Times {
		msg.WriteString(fmt.Sprintf("%s: %s\n", lt.Zone.DisplayName, lt.String()))
	}

	msg.WriteString(fmt.Sprintf("\n<b>%s</b>\n", announcement.FieldName))
	for _, tr := range a.Translations {
		msg.WriteString(fmt.Sprintf("<b>%s</b>: %s\n", tr.Language.Name, translated(tr, tr.Name)))
	}

	msg.WriteString(fmt.Sprintf("\n<b>%s</b>\n", announcement.FieldDescription))
	for _, tr := range a.Translations {
		msg.WriteString(fmt.Sprintf("<b>%s</b>: %s\n", tr.Language.Name, translated(tr, tr.Description)))
	}

	text := strings.TrimRight(msg.String(), "\n")

	// Cutting HTML could leave a tag open, so fall back to the header alone
	if len([]rune(text)) > MaxMessageLength {
		text = fmt.Sprintf("📣 <b>%s</b>\n🕒 %s", escape(a.Title), a.Start.Format(announcement.UTCLayout))
	}

	return text
}

func translated(tr announcement.Translation, text string) string {
	if tr.Unavailable {
		return "<i>translation unavailable</i>"
	}
	return escape(text)
}
