package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/nowplaying/internal/audio"
	"github.com/jmylchreest/nowplaying/internal/catalog"
	"github.com/jmylchreest/nowplaying/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Exit codes
const (
	exitError       = 1
	exitAudioDevice = 2
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose     bool
		configPath  string
		catalogPath string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "nowplaying",
	Short: "Random music player with a now-playing toast",
	Long: `nowplaying plays random tracks from a catalog and announces each one
with a toast that slides in, holds, and slides back out.

Running nowplaying without a subcommand starts the player.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(slog.LevelWarn)

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if globalOpts.catalogPath != "" {
			cfg.Catalog.Path = globalOpts.catalogPath
		}

		return nil
	},
	RunE: runPlayer,
}

// Execute runs the root command and maps failures to exit codes.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var devErr *audio.DeviceError
	var catErr *catalog.Error
	switch {
	case errors.As(err, &devErr):
		fmt.Fprintf(os.Stderr, "nowplaying: audio device unavailable: %v\n", devErr.Err)
		os.Exit(exitAudioDevice)
	case errors.As(err, &catErr):
		fmt.Fprintf(os.Stderr, "nowplaying: bad catalog %s: %v\n", catErr.Path, catErr.Err)
		os.Exit(exitError)
	default:
		fmt.Fprintf(os.Stderr, "nowplaying: %v\n", err)
		os.Exit(exitError)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/nowplaying/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.catalogPath, "catalog", "",
		"Path to catalog file (default: ~/.config/nowplaying/list.json)")
}

// setupLogger configures the global slog logger. --verbose always wins.
func setupLogger(level slog.Level) {
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
