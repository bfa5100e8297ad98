package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/event-announcer/internal/announcement"
	"github.com/pfrederiksen/event-announcer/internal/apperror"
	"github.com/pfrederiksen/event-announcer/internal/config"
	"github.com/pfrederiksen/event-announcer/internal/discord"
	"github.com/pfrederiksen/event-announcer/internal/logger"
	"github.com/pfrederiksen/event-announcer/internal/metrics"
	"github.com/pfrederiksen/event-announcer/internal/notifier"
	"github.com/pfrederiksen/event-announcer/internal/server"
	"github.com/pfrederiksen/event-announcer/internal/timezone"
	"github.com/pfrederiksen/event-announcer/internal/translate"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig       string
	flagName         string
	flagDescription  string
	flagDate         string
	flagTime         string
	flagLanguage     string
	flagFormat       string
	flagSchemaFormat string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event-announcer",
		Short: "Post multi-timezone, multi-language event announcements to Discord",
		Long: `A Discord bot that turns /event submissions into announcements listing the
event time in seven time zones and the event name and description in every
supported language.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ./configs/config.yaml if present)")

	cmd.AddCommand(newServeCmd(), newPreviewCmd(), newSchemaCmd())

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Discord bot",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Build one announcement and print it without posting",
		Args:  cobra.NoArgs,
		RunE:  runPreview,
	}

	cmd.Flags().StringVar(&flagName, "name", "", "Event name (required)")
	cmd.Flags().StringVar(&flagDescription, "description", "", "Event description (required)")
	cmd.Flags().StringVar(&flagDate, "date", "", "Event date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&flagTime, "time", "", "Event time in UTC, HH:MM (required)")
	cmd.Flags().StringVar(&flagLanguage, "language", "", "Source language code (default from config)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the /event command definition",
		Args:  cobra.NoArgs,
		RunE:  runSchema,
	}

	cmd.Flags().StringVar(&flagSchemaFormat, "format", "json", "Output format: json or yaml")

	return cmd
}

// runServe is the bot's main loop
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer closer.Close()

	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	builder, err := newBuilder(cfg, m, log)
	if err != nil {
		return err
	}

	mirrors, err := notifier.FromConfig(cfg.Mirrors)
	if err != nil {
		return apperror.Wrap(apperror.KindConfiguration, "configuring mirrors", err)
	}

	opts := []discord.HandlerOption{
		discord.WithColor(cfg.Announcement.Color),
		discord.WithCommandTimeout(cfg.Discord.CommandTimeout),
		discord.WithNotifiers(mirrors...),
		discord.WithLogger(log),
		discord.WithMetrics(m),
	}
	if cfg.Announcement.AttachICS {
		opts = append(opts, discord.WithICS(cfg.Announcement.ICSDuration))
	}

	bot, err := discord.NewBot(cfg.Discord.Token, cfg.Discord.GuildID, discord.NewHandler(builder, opts...), log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting event-announcer",
		"provider", cfg.Translation.Provider,
		"workers", cfg.Translation.Workers,
		"on_failure", cfg.Translation.OnFailure,
		"mirrors", len(mirrors),
	)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Server.Enabled {
		srv := server.New(cfg.Server, reg, log)
		g.Go(func() error { return srv.Run(gctx) })
	}
	g.Go(func() error { return bot.Run(gctx) })

	return g.Wait()
}

// runPreview builds an announcement with the configured translator and
// prints it
func runPreview(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := cfg.ValidateTranslation(); err != nil {
		return err
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logger.Format, logger.ParseLevel(cfg.Logger.Level))

	builder, err := newBuilder(cfg, nil, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Discord.CommandTimeout)
	defer cancel()

	a, err := builder.Build(ctx, announcement.Submission{
		Name:           flagName,
		Description:    flagDescription,
		Date:           flagDate,
		Time:           flagTime,
		SourceLanguage: flagLanguage,
	})
	if err != nil {
		if apperror.IsKind(err, apperror.KindValidation) {
			return fmt.Errorf("invalid event details: %s", apperror.DetailsOf(err))
		}
		return err
	}

	return WriteOutput(cmd.OutOrStdout(), a, format)
}

// runSchema prints the slash command definition
func runSchema(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagSchemaFormat))
	if format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format: %s (must be 'json' or 'yaml')", flagSchemaFormat)
	}
	return WriteSchema(cmd.OutOrStdout(), discord.Schema(), format)
}

// newBuilder wires the translator and converter into an announcement builder
func newBuilder(cfg *config.Config, m *metrics.Metrics, log *slog.Logger) (*announcement.Builder, error) {
	tr, err := translate.New(cfg.Translation)
	if err != nil {
		return nil, err
	}

	conv, err := timezone.NewConverter()
	if err != nil {
		return nil, err
	}

	policy, err := announcement.ParsePolicy(cfg.Translation.OnFailure)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindConfiguration, "invalid translation.on_failure", err)
	}

	return announcement.NewBuilder(conv, translate.WithMetrics(tr, m, log),
		announcement.WithPolicy(policy),
		announcement.WithWorkers(cfg.Translation.Workers),
		announcement.WithTimeout(cfg.Translation.Timeout),
		announcement.WithDefaultLanguage(cfg.Announcement.DefaultLanguage),
		announcement.WithLogger(log),
		announcement.WithMetrics(m),
	)
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the root command and maps the result to an exit code
func run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
