// Package calendar renders announcements as iCalendar (.ics) files.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
)

// DefaultDuration is used when no event length is configured
const DefaultDuration = 2 * time.Hour

// FileName is the attachment name used for generated calendars
const FileName = "event.ics"

// maxLineOctets is the RFC 5545 content line limit, excluding CRLF
const maxLineOctets = 75

// GenerateICS generates an iCalendar file holding one VEVENT for the
// announcement, starting at its UTC start time and lasting duration.
func GenerateICS(a *announcement.Announcement, duration time.Duration) string {
	if duration <= 0 {
		duration = DefaultDuration
	}

	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Event Announcer//event-announcer//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString("BEGIN:VEVENT\r\n")

	writeLine(&ics, fmt.Sprintf("UID:%s@event-announcer", a.ID))
	writeLine(&ics, fmt.Sprintf("DTSTAMP:%s", formatICSTime(time.Now())))
	writeLine(&ics, fmt.Sprintf("DTSTART:%s", formatICSTime(a.Start)))
	writeLine(&ics, fmt.Sprintf("DTEND:%s", formatICSTime(a.Start.Add(duration))))
	writeLine(&ics, "SUMMARY:"+escapeICS(a.Title))
	writeLine(&ics, "DESCRIPTION:"+escapeICS(description(a)))

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")

	ics.WriteString("END:VEVENT\r\n")
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

// description is the source-language text followed by the local times
func description(a *announcement.Announcement) string {
	var b strings.Builder

	if tr, ok := a.Translation(a.Source.Code); ok {
		b.WriteString(tr.Description)
		b.WriteString("\n\n")
	}
	for _, lt := range a.Times {
		b.WriteString(fmt.Sprintf("%s: %s\n", lt.Zone.DisplayName, lt.String()))
	}

	return strings.TrimRight(b.String(), "\n")
}

// writeLine writes a content line, folding it at 75 octets without splitting
// a UTF-8 sequence.
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with a space
		limit = maxLineOctets - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
