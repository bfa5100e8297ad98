package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/pfrederiksen/event-announcer/internal/apperror"
)

// Bot owns the Discord gateway session
type Bot struct {
	session *discordgo.Session
	handler *Handler
	guildID string
	logger  *slog.Logger
}

// NewBot creates a bot for token. An empty guildID registers the command
// globally.
func NewBot(token, guildID string, handler *Handler, logger *slog.Logger) (*Bot, error) {
	if token == "" {
		return nil, apperror.New(apperror.KindConfiguration, "discord bot token is required")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindConfiguration, "creating discord session", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	return &Bot{
		session: session,
		handler: handler,
		guildID: guildID,
		logger:  logger.With("component", "bot"),
	}, nil
}

// Run connects, registers /event and serves interactions until ctx is done
func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("connected to discord", "user", r.User.Username, "guilds", len(r.Guilds))
	})
	b.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		b.handler.Handle(ctx, s, ic.Interaction)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening discord session: %w", err)
	}
	defer func() {
		if err := b.session.Close(); err != nil {
			b.logger.Warn("closing discord session", "error", err)
		}
	}()

	if err := b.RegisterCommands(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	b.logger.Info("shutting down bot")
	return nil
}

// RegisterCommands replaces the application's commands with /event
func (b *Bot) RegisterCommands(ctx context.Context) error {
	if b.session.State == nil || b.session.State.User == nil {
		return fmt.Errorf("registering commands: session is not ready")
	}

	cmds, err := b.session.ApplicationCommandBulkOverwrite(
		b.session.State.User.ID,
		b.guildID,
		[]*discordgo.ApplicationCommand{EventCommand()},
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}

	b.logger.Info("registered commands", "count", len(cmds), "guild_id", b.guildID)
	return nil
}
