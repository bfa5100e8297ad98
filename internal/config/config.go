// Package config loads event-announcer settings from an optional YAML file
// and the environment.
//
// Secrets are only ever read from the environment in practice:
//
//	DISCORD_TOKEN   (or EVENTBOT_DISCORD_TOKEN)
//	DEEPL_API_KEY   (or EVENTBOT_TRANSLATION_API_KEY)
//
// Every other key can be overridden with EVENTBOT_<SECTION>_<KEY>, for example
// EVENTBOT_TRANSLATION_WORKERS=3.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pfrederiksen/event-announcer/internal/apperror"
	"github.com/pfrederiksen/event-announcer/internal/language"
)

const envPrefix = "EVENTBOT"

// Translation providers
const (
	ProviderDeepL     = "deepl"
	ProviderGoogleWeb = "google-web"
)

// Translation failure policies
const (
	OnFailurePlaceholder = "placeholder"
	OnFailureOmit        = "omit"
	OnFailureAbort       = "abort"
)

type Config struct {
	Discord      Discord      `mapstructure:"discord"`
	Translation  Translation  `mapstructure:"translation"`
	Announcement Announcement `mapstructure:"announcement"`
	Logger       Logger       `mapstructure:"logger"`
	Server       Server       `mapstructure:"server"`
	Mirrors      Mirrors      `mapstructure:"mirrors"`
}

type Discord struct {
	Token          string        `mapstructure:"token"`
	GuildID        string        `mapstructure:"guild_id"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
}

type Translation struct {
	Provider  string        `mapstructure:"provider"`
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Workers   int           `mapstructure:"workers"`
	OnFailure string        `mapstructure:"on_failure"`
}

type Announcement struct {
	DefaultLanguage string        `mapstructure:"default_language"`
	Color           int           `mapstructure:"color"`
	AttachICS       bool          `mapstructure:"attach_ics"`
	ICSDuration     time.Duration `mapstructure:"ics_duration"`
}

type Logger struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type Server struct {
	Enabled       bool          `mapstructure:"enabled"`
	ListenAddress string        `mapstructure:"listen_address"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
}

type Mirrors struct {
	Telegram TelegramMirror `mapstructure:"telegram"`
	Twitter  TwitterMirror  `mapstructure:"twitter"`
}

type TelegramMirror struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// Enabled reports whether both Telegram credentials are set
func (t TelegramMirror) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type TwitterMirror struct {
	APIKey       string `mapstructure:"api_key"`
	APISecret    string `mapstructure:"api_secret"`
	AccessToken  string `mapstructure:"access_token"`
	AccessSecret string `mapstructure:"access_secret"`
}

// Enabled reports whether all four Twitter credentials are set
func (t TwitterMirror) Enabled() bool {
	return t.APIKey != "" && t.APISecret != "" && t.AccessToken != "" && t.AccessSecret != ""
}

// Load reads configuration. When path is empty, config.yaml is looked up in
// ./configs and the working directory, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := bindSecrets(v); err != nil {
		return nil, apperror.Wrap(apperror.KindConfiguration, "binding environment", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperror.Wrap(apperror.KindConfiguration, "reading config file", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, apperror.Wrap(apperror.KindConfiguration, "reading config file", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperror.Wrap(apperror.KindConfiguration, "decoding config", err)
	}

	cfg.Translation.Provider = strings.ToLower(strings.TrimSpace(cfg.Translation.Provider))
	cfg.Translation.OnFailure = strings.ToLower(strings.TrimSpace(cfg.Translation.OnFailure))

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.guild_id", "")
	v.SetDefault("discord.command_timeout", 60*time.Second)

	v.SetDefault("translation.provider", ProviderDeepL)
	v.SetDefault("translation.api_key", "")
	v.SetDefault("translation.base_url", "")
	v.SetDefault("translation.timeout", 5*time.Second)
	v.SetDefault("translation.workers", 1)
	v.SetDefault("translation.on_failure", OnFailurePlaceholder)

	v.SetDefault("announcement.default_language", language.DefaultCode)
	v.SetDefault("announcement.color", 0x5865F2)
	v.SetDefault("announcement.attach_ics", false)
	v.SetDefault("announcement.ics_duration", 2*time.Hour)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("server.enabled", true)
	v.SetDefault("server.listen_address", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("mirrors.telegram.bot_token", "")
	v.SetDefault("mirrors.telegram.chat_id", "")
	v.SetDefault("mirrors.twitter.api_key", "")
	v.SetDefault("mirrors.twitter.api_secret", "")
	v.SetDefault("mirrors.twitter.access_token", "")
	v.SetDefault("mirrors.twitter.access_secret", "")
}

// bindSecrets maps the well-known unprefixed variable names onto config keys
func bindSecrets(v *viper.Viper) error {
	bindings := [][]string{
		{"discord.token", "DISCORD_TOKEN"},
		{"translation.api_key", "DEEPL_API_KEY"},
		{"mirrors.telegram.bot_token", "TELEGRAM_BOT_TOKEN"},
		{"mirrors.telegram.chat_id", "TELEGRAM_CHAT_ID"},
		{"mirrors.twitter.api_key", "TWITTER_API_KEY"},
		{"mirrors.twitter.api_secret", "TWITTER_API_SECRET"},
		{"mirrors.twitter.access_token", "TWITTER_ACCESS_TOKEN"},
		{"mirrors.twitter.access_secret", "TWITTER_ACCESS_SECRET"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("binding %s: %w", b[0], err)
		}
	}
	return nil
}

// Validate checks everything `serve` needs before connecting anywhere
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Discord.Token) == "" {
		return apperror.New(apperror.KindConfiguration, "discord bot token is required",
			"set DISCORD_TOKEN or EVENTBOT_DISCORD_TOKEN")
	}
	if c.Discord.CommandTimeout <= 0 {
		return apperror.New(apperror.KindConfiguration, "discord.command_timeout must be positive")
	}
	return c.ValidateTranslation()
}

// ValidateTranslation checks the settings needed to build announcements
func (c *Config) ValidateTranslation() error {
	t := c.Translation

	switch t.Provider {
	case ProviderDeepL:
		if strings.TrimSpace(t.APIKey) == "" {
			return apperror.New(apperror.KindConfiguration, "translation API key is required",
				"set DEEPL_API_KEY or EVENTBOT_TRANSLATION_API_KEY")
		}
	case ProviderGoogleWeb:
	default:
		return apperror.New(apperror.KindConfiguration, "unknown translation provider",
			fmt.Sprintf("%q (must be %q or %q)", t.Provider, ProviderDeepL, ProviderGoogleWeb))
	}

	if t.Timeout <= 0 {
		return apperror.New(apperror.KindConfiguration, "translation.timeout must be positive")
	}
	if t.Workers < 1 {
		return apperror.New(apperror.KindConfiguration, "translation.workers must be at least 1")
	}

	switch t.OnFailure {
	case OnFailurePlaceholder, OnFailureOmit, OnFailureAbort:
	default:
		return apperror.New(apperror.KindConfiguration, "unknown translation.on_failure policy",
			fmt.Sprintf("%q (must be placeholder, omit or abort)", t.OnFailure))
	}

	if _, ok := language.Lookup(c.Announcement.DefaultLanguage); !ok {
		return apperror.New(apperror.KindConfiguration, "unsupported announcement.default_language",
			fmt.Sprintf("%q (supported: %s)", c.Announcement.DefaultLanguage, strings.Join(language.Codes(), ", ")))
	}

	return nil
}
