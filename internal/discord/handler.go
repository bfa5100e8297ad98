package discord

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
	"github.com/pfrederiksen/event-announcer/internal/apperror"
	"github.com/pfrederiksen/event-announcer/internal/calendar"
	"github.com/pfrederiksen/event-announcer/internal/logger"
	"github.com/pfrederiksen/event-announcer/internal/metrics"
	"github.com/pfrederiksen/event-announcer/internal/notifier"
)

// Messages shown to the invoker
const (
	successMessage    = "✅ Event announcement posted in <#%s>"
	validationMessage = "❌ Invalid event details: %s"
	failureMessage    = "❌ Something went wrong while creating the event announcement."
)

const (
	// DefaultCommandTimeout bounds one invocation from ack to delivery
	DefaultCommandTimeout = 60 * time.Second
	mirrorTimeout         = 30 * time.Second
	deliverySink          = "discord"
)

// Session is the part of *discordgo.Session the handler uses
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// AnnouncementBuilder builds an announcement from a submission
type AnnouncementBuilder interface {
	Build(ctx context.Context, s announcement.Submission) (*announcement.Announcement, error)
}

// Handler serves /event invocations
type Handler struct {
	builder     AnnouncementBuilder
	notifiers   []notifier.Notifier
	color       int
	attachICS   bool
	icsDuration time.Duration
	timeout     time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithColor sets the embed colour
func WithColor(color int) HandlerOption {
	return func(h *Handler) { h.color = color }
}

// WithICS attaches an event.ics of the given length to every announcement
func WithICS(duration time.Duration) HandlerOption {
	return func(h *Handler) {
		h.attachICS = true
		h.icsDuration = duration
	}
}

// WithCommandTimeout bounds each invocation
func WithCommandTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) { h.timeout = d }
}

// WithNotifiers adds mirrors that re-post delivered announcements
func WithNotifiers(n ...notifier.Notifier) HandlerOption {
	return func(h *Handler) { h.notifiers = append(h.notifiers, n...) }
}

func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = l }
}

func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler creates a command handler around a builder
func NewHandler(builder AnnouncementBuilder, opts ...HandlerOption) *Handler {
	h := &Handler{
		builder:     builder,
		icsDuration: calendar.DefaultDuration,
		timeout:     DefaultCommandTimeout,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.timeout <= 0 {
		h.timeout = DefaultCommandTimeout
	}
	h.logger = h.logger.With("component", "discord")
	return h
}

// Handle serves one interaction. Anything other than an /event invocation is
// ignored. It never returns an error; every outcome is reported to the
// invoker by editing the deferred response.
func (h *Handler) Handle(ctx context.Context, s Session, i *discordgo.Interaction) {
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != CommandName {
		return
	}

	log := h.logger.With(
		"interaction_id", i.ID,
		"guild_id", i.GuildID,
		"channel_id", i.ChannelID,
		"user", invoker(i),
	)

	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Error("failed to acknowledge interaction", "error", err)
		h.metrics.ObserveCommand(metrics.OutcomeError)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling command", "panic", r, "stack", string(debug.Stack()))
			h.metrics.ObserveCommand(metrics.OutcomeError)
			h.reply(s, i, log, failureMessage)
		}
	}()

	cmdCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	a, outcome, reply := h.announce(cmdCtx, s, i, data, log)
	h.metrics.ObserveCommand(outcome)
	h.reply(s, i, log, reply)

	if a != nil {
		h.mirror(ctx, a, log)
	}
}

// announce builds and delivers the announcement. It returns the delivered
// announcement (nil on failure), the metrics outcome and the reply text.
func (h *Handler) announce(ctx context.Context, s Session, i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData, log *slog.Logger) (*announcement.Announcement, string, string) {
	sub, err := submissionFromOptions(data.Options, i.ChannelID)
	if err != nil {
		log.Info("rejected command options", "error", err)
		return nil, metrics.OutcomeValidation, fmt.Sprintf(validationMessage, apperror.DetailsOf(err))
	}

	a, err := h.builder.Build(ctx, sub)
	if err != nil {
		if apperror.IsKind(err, apperror.KindValidation) {
			log.Info("rejected event details", "error", err)
			return nil, metrics.OutcomeValidation, fmt.Sprintf(validationMessage, apperror.DetailsOf(err))
		}
		log.Error("failed to build announcement", "kind", string(apperror.KindOf(err)), "error", err)
		return nil, metrics.OutcomeBuild, failureMessage
	}

	log = log.With("announcement_id", a.ID.String())

	channelID := a.ChannelID
	if channelID == "" {
		channelID = i.ChannelID
	}

	if err := h.deliver(ctx, s, channelID, a); err != nil {
		log.Error("failed to deliver announcement", "target_channel", channelID, "error", err)
		return nil, metrics.OutcomeDelivery, failureMessage
	}

	log.Info("announcement delivered", "target_channel", channelID)
	return a, metrics.OutcomeSuccess, fmt.Sprintf(successMessage, channelID)
}

func (h *Handler) deliver(ctx context.Context, s Session, channelID string, a *announcement.Announcement) error {
	msg := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{RenderEmbed(a, h.color)},
	}
	if h.attachICS {
		msg.Files = []*discordgo.File{{
			Name:        calendar.FileName,
			ContentType: "text/calendar",
			Reader:      strings.NewReader(calendar.GenerateICS(a, h.icsDuration)),
		}}
	}

	_, err := s.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	h.metrics.ObserveDelivery(deliverySink, err)
	if err != nil {
		return apperror.Wrap(apperror.KindDelivery, "sending announcement to channel "+channelID, err)
	}
	return nil
}

// mirror re-posts a delivered announcement. Failures are logged only.
func (h *Handler) mirror(ctx context.Context, a *announcement.Announcement, log *slog.Logger) {
	for _, n := range h.notifiers {
		mctx, cancel := context.WithTimeout(ctx, mirrorTimeout)
		err := n.Notify(mctx, a)
		cancel()

		h.metrics.ObserveDelivery(n.Name(), err)
		if err != nil {
			log.Warn("mirror failed", "sink", n.Name(), "announcement_id", a.ID.String(), "error", err)
			continue
		}
		log.Debug("announcement mirrored", "sink", n.Name(), "announcement_id", a.ID.String())
	}
}

func (h *Handler) reply(s Session, i *discordgo.Interaction, log *slog.Logger, content string) {
	if _, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content}); err != nil {
		log.Error("failed to edit interaction response", "error", err)
	}
}

// submissionFromOptions extracts and type-checks the command options. The
// builder validates the values themselves.
func submissionFromOptions(opts []*discordgo.ApplicationCommandInteractionDataOption, invocationChannel string) (announcement.Submission, error) {
	var sub announcement.Submission
	var problems []string

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		var target *string
		want := discordgo.ApplicationCommandOptionString
		switch opt.Name {
		case OptionName:
			target = &sub.Name
		case OptionDescription:
			target = &sub.Description
		case OptionDate:
			target = &sub.Date
		case OptionTime:
			target = &sub.Time
		case OptionLanguage:
			target = &sub.SourceLanguage
		case OptionChannel:
			target = &sub.ChannelID
			want = discordgo.ApplicationCommandOptionChannel
		default:
			continue
		}

		value, ok := opt.Value.(string)
		if opt.Type != want || !ok {
			problems = append(problems, fmt.Sprintf("%s has the wrong type", opt.Name))
			continue
		}
		*target = value
	}

	if len(problems) > 0 {
		return sub, apperror.New(apperror.KindValidation, "invalid command options", strings.Join(problems, "; "))
	}
	if sub.ChannelID == "" {
		sub.ChannelID = invocationChannel
	}
	return sub, nil
}

func invoker(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}
