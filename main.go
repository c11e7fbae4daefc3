// Package main provides the entry point for the storytime CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/storytime/playback"
	"github.com/dgnsrekt/storytime/playback/engines"
	"github.com/dgnsrekt/storytime/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	engineName string
	duration   int
	rate       float64
	pitch      float64
	width      uint

	rootCmd = &cobra.Command{
		Use:   "storytime [FILE]",
		Short: "Narrated story playback in the terminal",
		Long: paragraph(
			fmt.Sprintf("\nPlay a story aloud in the terminal, %s.", keyword("sentence by sentence")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// playbackConfig layers the configuration sources: defaults, then the
// viper config file, then STORYTIME_* environment variables, then
// explicit flags.
func playbackConfig(cmd *cobra.Command) (playback.Config, error) {
	cfg := playback.DefaultConfig()

	if viper.IsSet("engine") {
		cfg.Engine = viper.GetString("engine")
	}
	if viper.IsSet("rate") {
		cfg.Rate = viper.GetFloat64("rate")
	}
	if viper.IsSet("pitch") {
		cfg.Pitch = viper.GetFloat64("pitch")
	}
	if viper.IsSet("piper.binary") {
		cfg.Piper.Binary = viper.GetString("piper.binary")
	}
	if viper.IsSet("piper.model") {
		cfg.Piper.Model = viper.GetString("piper.model")
	}
	if viper.IsSet("piper.model_path") {
		cfg.Piper.ModelPath = viper.GetString("piper.model_path")
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}

	if cmd.Flags().Changed("engine") {
		cfg.Engine = engineName
	}
	if cmd.Flags().Changed("rate") {
		cfg.Rate = rate
	}
	if cmd.Flags().Changed("pitch") {
		cfg.Pitch = pitch
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: rate %.2f pitch %.2f", err, cfg.Rate, cfg.Pitch)
	}
	return cfg, nil
}

func validateOptions(cmd *cobra.Command) error {
	engine := viper.GetString("engine")
	if cmd.Flags().Changed("engine") {
		engine = engineName
	}
	if engine != "" {
		known := false
		for _, n := range engines.Names() {
			if n == engine {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: %q (known: %v)", playback.ErrUnknownEngine, engine, engines.Names())
		}
	}

	// Detect terminal width for the scenes listing.
	if !cmd.Flags().Changed("width") {
		if term.IsTerminal(int(os.Stdout.Fd())) && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}
			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// stdinToFile copies piped story text to a temp file so the player has
// a path it can watch.
func stdinToFile() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("unable to read stdin: %w", err)
	}
	f, err := os.CreateTemp("", "storytime-*.txt")
	if err != nil {
		return "", fmt.Errorf("unable to create temp file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("unable to write temp file: %w", err)
	}
	return f.Name(), nil
}

func execute(cmd *cobra.Command, args []string) error {
	var path string
	switch {
	case len(args) == 1 && args[0] != "-":
		path = args[0]
	default:
		yes, err := stdinIsPipe()
		if err != nil {
			return err
		}
		if !yes {
			return errors.New("missing story file (pass a path or pipe text in)")
		}
		path, err = stdinToFile()
		if err != nil {
			return err
		}
		defer func() { _ = os.Remove(path) }()
	}

	cfg, err := playbackConfig(cmd)
	if err != nil {
		return err
	}

	durationOverride := 0
	if cmd.Flags().Changed("duration") {
		durationOverride = duration
	}

	p, err := ui.NewProgram(path, cfg.Engine, cfg, durationOverride)
	if err != nil {
		return err
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run player: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&engineName, "engine", "e", "mock", "narration engine (piper/mock/noop)")
	rootCmd.Flags().IntVarP(&duration, "duration", "d", 0, "narration budget in seconds (overrides the story file)")
	rootCmd.Flags().Float64Var(&rate, "rate", 0.5, "speech rate")
	rootCmd.Flags().Float64Var(&pitch, "pitch", 1.3, "speech pitch")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "word-wrap at width (set to 0 to auto-detect)")

	_ = viper.BindPFlag("engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("rate", rootCmd.Flags().Lookup("rate"))
	_ = viper.BindPFlag("pitch", rootCmd.Flags().Lookup("pitch"))
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))

	viper.SetDefault("engine", "mock")
	viper.SetDefault("width", 0)

	rootCmd.AddCommand(configCmd, scenesCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "storytime")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "storytime")}, dirs...)
	}

	if c := os.Getenv("STORYTIME_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("storytime")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("storytime")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	configFile = filepath.Join(dirs[0], "storytime.yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
