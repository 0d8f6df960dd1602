/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/Seednode/millionaire/games/millionaire"
)

var formats = []string{"fifteen", "twelve-balanced", "twelve-classic", "custom"}

type Config struct {
	bind            string
	configFile      string
	fameSize        int64
	format          string
	friendTimeout   time.Duration
	lang            string
	milestones      []int
	port            int
	prefix          string
	profile         bool
	questionTimeout time.Duration
	questions       string
	redisAddr       string
	redisPrefix     string
	round           int
	sessionTimeout  time.Duration
	soundDir        string
	soundExt        string
	tlsCert         string
	tlsKey          string
	translations    string
	verbose         bool
	version         bool
	winnings        string

	// cueLengths maps a cue tag to the length of its sound file. Only set
	// through the config file.
	cueLengths map[string]time.Duration
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if _, err := language.Parse(c.lang); err != nil {
		return fmt.Errorf("invalid --lang %q: %w", c.lang, err)
	}
	if !slices.Contains(formats, c.format) {
		return fmt.Errorf("invalid --format %q (must be one of %s)", c.format, strings.Join(formats, ", "))
	}
	if len(c.milestones) != 0 && len(c.milestones) != 2 {
		return errors.New("--milestones takes exactly two question numbers")
	}
	if c.questionTimeout <= 0 || c.friendTimeout <= 0 {
		return errors.New("--question-timeout and --friend-timeout must be positive")
	}
	if c.fameSize < 1 {
		return fmt.Errorf("invalid --hall-of-fame-size (must be positive): %d", c.fameSize)
	}
	if _, err := c.newMilestones(); err != nil {
		return err
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) defaultLang() language.Tag {
	return language.Make(c.lang)
}

// newMilestones builds the milestones of one round. Each call draws the
// additional jokers again.
func (c *Config) newMilestones() (*millionaire.Milestones, error) {
	switch c.format {
	case "fifteen":
		return millionaire.Fifteen(), nil
	case "twelve-balanced":
		return millionaire.TwelveBalanced(), nil
	case "twelve-classic":
		return millionaire.TwelveClassic(), nil
	}

	var opts []millionaire.MilestonesOption
	if len(c.milestones) == 2 {
		opts = append(opts, millionaire.WithMilestones(c.milestones[0], c.milestones[1]))
	}

	return millionaire.NewMilestones(c.round, opts...)
}

// readConfigFile applies the settings of --config to every flag left unset
// on the command line, then decodes the cue lengths.
func (c *Config) readConfigFile(v *viper.Viper, fs *pflag.FlagSet) error {
	if c.configFile == "" {
		return nil
	}

	v.SetConfigFile(c.configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if serr := fs.Set(f.Name, flagValue(v.Get(f.Name))); serr != nil {
			err = fmt.Errorf("config file: %s: %w", f.Name, serr)
		}
	})
	if err != nil {
		return err
	}

	return decodeCueLengths(v.Get("audio.lengths"), &c.cueLengths)
}

func decodeCueLengths(raw any, out *map[string]time.Duration) error {
	if raw == nil {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     out,
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("audio.lengths: %w", err)
	}

	return nil
}

// flagValue turns a config file value into flag syntax. Lists become comma
// separated.
func flagValue(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprintf("%v", item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprintf("%v", v)
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MILLIONAIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "millionaire",
		Short:         "A dual-screen quiz game show: a host console and a public screen, driven over websockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.readConfigFile(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: MILLIONAIRE_BIND)")
	fs.StringVarP(&cfg.configFile, "config", "c", "", "path to a yaml, toml or json config file (env: MILLIONAIRE_CONFIG)")
	fs.StringVar(&cfg.format, "format", "fifteen", "round format: "+strings.Join(formats, ", ")+" (env: MILLIONAIRE_FORMAT)")
	fs.DurationVar(&cfg.friendTimeout, "friend-timeout", millionaire.DefaultFriendTimeout, "length of the phone-a-friend countdown (env: MILLIONAIRE_FRIEND_TIMEOUT)")
	fs.Int64Var(&cfg.fameSize, "hall-of-fame-size", 100, "entries kept per language in the hall of fame (env: MILLIONAIRE_HALL_OF_FAME_SIZE)")
	fs.StringVarP(&cfg.lang, "lang", "l", "fr", "language of new games (env: MILLIONAIRE_LANG)")
	fs.IntSliceVar(&cfg.milestones, "milestones", nil, "first and second milestones of a custom round, e.g. 5,10 (env: MILLIONAIRE_MILESTONES)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: MILLIONAIRE_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: MILLIONAIRE_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: MILLIONAIRE_PROFILE)")
	fs.DurationVar(&cfg.questionTimeout, "question-timeout", millionaire.DefaultQuestionTimeout, "question countdown when its music length is unknown (env: MILLIONAIRE_QUESTION_TIMEOUT)")
	fs.StringVarP(&cfg.questions, "questions", "q", "", "question file, {lang} is replaced by the game language; embedded sample when empty (env: MILLIONAIRE_QUESTIONS)")
	fs.StringVar(&cfg.redisAddr, "redis", "", "redis address for the hall of fame, disabled when empty (env: MILLIONAIRE_REDIS)")
	fs.StringVar(&cfg.redisPrefix, "redis-prefix", "millionaire", "prefix of the redis keys (env: MILLIONAIRE_REDIS_PREFIX)")
	fs.IntVar(&cfg.round, "round", 15, "questions per custom round (env: MILLIONAIRE_ROUND)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle game sessions are ended (env: MILLIONAIRE_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.soundDir, "sound-dir", "", "directory of cue files, served under /sound/ (env: MILLIONAIRE_SOUND_DIR)")
	fs.StringVar(&cfg.soundExt, "sound-ext", "ogg", "file extension of cue files (env: MILLIONAIRE_SOUND_EXT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: MILLIONAIRE_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: MILLIONAIRE_TLS_KEY)")
	fs.StringVar(&cfg.translations, "translations", "", "translation table; embedded default when empty (env: MILLIONAIRE_TRANSLATIONS)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: MILLIONAIRE_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: MILLIONAIRE_VERSION)")
	fs.StringVarP(&cfg.winnings, "winnings", "w", "", "winnings table; embedded default when empty (env: MILLIONAIRE_WINNINGS)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, flagValue(v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("millionaire v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
