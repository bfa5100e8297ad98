package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/pfrederiksen/event-announcer/internal/language"
)

// CommandName is the slash command users invoke
const CommandName = "event"

// Option names, matching the submission's JSON field names
const (
	OptionName        = "name"
	OptionDescription = "description"
	OptionDate        = "date"
	OptionTime        = "time"
	OptionLanguage    = "language"
	OptionChannel     = "channel"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 300
)

// EventCommand returns the /event command definition
func EventCommand() *discordgo.ApplicationCommand {
	minLength := 1

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(language.All()))
	for _, l := range language.All() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  l.Label(),
			Value: l.Code,
		})
	}

	return &discordgo.ApplicationCommand{
		Name:        CommandName,
		Description: "Announce an event with times and translations",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionName,
				Description: "Event name",
				Required:    true,
				MinLength:   &minLength,
				MaxLength:   maxNameLength,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionDescription,
				Description: "Event description",
				Required:    true,
				MinLength:   &minLength,
				MaxLength:   maxDescriptionLength,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionDate,
				Description: "Event date (YYYY-MM-DD)",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionTime,
				Description: "Event time in UTC (HH:MM)",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptionLanguage,
				Description: "Language the name and description are written in",
				Choices:     choices,
			},
			{
				Type:         discordgo.ApplicationCommandOptionChannel,
				Name:         OptionChannel,
				Description:  "Channel to post the announcement in (defaults to this one)",
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
			},
		},
	}
}

// CommandSchema is a printable description of the registered command
type CommandSchema struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Options     []OptionSchema `json:"options" yaml:"options"`
}

// OptionSchema describes one command option
type OptionSchema struct {
	Name         string         `json:"name" yaml:"name"`
	Type         string         `json:"type" yaml:"type"`
	Description  string         `json:"description" yaml:"description"`
	Required     bool           `json:"required" yaml:"required"`
	MaxLength    int            `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Choices      []ChoiceSchema `json:"choices,omitempty" yaml:"choices,omitempty"`
	ChannelTypes []string       `json:"channel_types,omitempty" yaml:"channel_types,omitempty"`
}

// ChoiceSchema is one allowed value of an option
type ChoiceSchema struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Schema describes EventCommand in a form suitable for JSON or YAML output
func Schema() CommandSchema {
	cmd := EventCommand()

	schema := CommandSchema{
		Name:        cmd.Name,
		Description: cmd.Description,
	}
	for _, opt := range cmd.Options {
		o := OptionSchema{
			Name:        opt.Name,
			Type:        optionTypeName(opt.Type),
			Description: opt.Description,
			Required:    opt.Required,
			MaxLength:   opt.MaxLength,
		}
		for _, c := range opt.Choices {
			value, _ := c.Value.(string)
			o.Choices = append(o.Choices, ChoiceSchema{Name: c.Name, Value: value})
		}
		for _, ct := range opt.ChannelTypes {
			o.ChannelTypes = append(o.ChannelTypes, channelTypeName(ct))
		}
		schema.Options = append(schema.Options, o)
	}

	return schema
}

func optionTypeName(t discordgo.ApplicationCommandOptionType) string {
	switch t {
	case discordgo.ApplicationCommandOptionString:
		return "string"
	case discordgo.ApplicationCommandOptionChannel:
		return "channel"
	default:
		return "unknown"
	}
}

func channelTypeName(t discordgo.ChannelType) string {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return "guild_text"
	case discordgo.ChannelTypeGuildNews:
		return "guild_news"
	default:
		return "other"
	}
}
