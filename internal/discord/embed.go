package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
)

// Discord embed limits
const (
	maxTitleLength       = 256
	maxEmbedDescription  = 4096
	maxFieldNameLength   = 256
	maxFieldValueLength  = 1024
	maxFields            = 25
	continuedFieldSuffix = " (cont.)"
)

// RenderEmbed renders an announcement as a Discord embed. Values are
// truncated to Discord's limits, and listings longer than one field are
// continued in further fields.
func RenderEmbed(a *announcement.Announcement, color int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       truncate(a.Title, maxTitleLength),
		Description: truncate(a.Description, maxEmbedDescription),
		Color:       color,
		Timestamp:   a.Start.Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Announcement " + a.ID.String(),
		},
	}

	for _, f := range a.Fields {
		value := f.Value
		if f.Name == announcement.FieldUTC {
			value = fmt.Sprintf("%s\n<t:%d:F>", value, a.Start.Unix())
		}

		for i, chunk := range splitLines(value, maxFieldValueLength) {
			name := f.Name
			if i > 0 {
				name += continuedFieldSuffix
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   truncate(name, maxFieldNameLength),
				Value:  chunk,
				Inline: f.Inline,
			})
		}
	}

	if len(embed.Fields) > maxFields {
		embed.Fields = embed.Fields[:maxFields]
	}

	return embed
}

// splitLines packs whole lines into chunks of at most limit runes. A single
// line longer than limit is truncated.
func splitLines(s string, limit int) []string {
	if s == "" {
		return []string{"\u200b"}
	}

	var chunks []string
	var cur []string
	curLen := 0

	for _, line := range strings.Split(s, "\n") {
		line = truncate(line, limit)
		n := runeCount(line)

		// +1 for the joining newline
		if len(cur) > 0 && curLen+1+n > limit {
			chunks = append(chunks, strings.Join(cur, "\n"))
			cur, curLen = nil, 0
		}
		if len(cur) > 0 {
			curLen++
		}
		cur = append(cur, line)
		curLen += n
	}
	if len(cur) > 0 {
		chunks = append(chunks, strings.Join(cur, "\n"))
	}

	return chunks
}

// truncate shortens s to at most limit runes, marking the cut with "…"
func truncate(s string, limit int) string {
	if runeCount(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

func runeCount(s string) int {
	return len([]rune(s))
}
