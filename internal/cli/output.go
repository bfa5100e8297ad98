package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
	"github.com/pfrederiksen/event-announcer/internal/discord"
	"github.com/pfrederiksen/event-announcer/internal/notifier"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// WriteOutput writes an announcement in the specified format
func WriteOutput(w io.Writer, a *announcement.Announcement, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, a)
	case FormatText:
		return notifier.NewDryRunNotifier(w).Notify(context.Background(), a)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteSchema writes the command schema in the specified format
func WriteSchema(w io.Writer, schema discord.CommandSchema, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, schema)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(schema); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
