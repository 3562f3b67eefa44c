// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/nowplaying/internal/easing"
)

// Default configuration values.
const (
	DefaultSlide          = time.Second
	DefaultHold           = 3 * time.Second
	DefaultPanelWidth     = 300
	DefaultFPS            = 60
	DefaultIdleMode       = "block"
	DefaultTextOffsetX    = 20
	DefaultTitleY         = 15
	DefaultNameY          = 50
	DefaultTitle          = "Play Now"
	DefaultColumnsPerUnit = 0.1
	DefaultVolume         = 100
	DefaultBuffer         = 100 * time.Millisecond
	DefaultSilentTrack    = 30 * time.Second
	DefaultCatalogFile    = "list.json"
	DefaultLogLevel       = "info"
)

// Config represents the nowplaying configuration.
type Config struct {
	Popup   PopupConfig   `toml:"popup"`
	Render  RenderConfig  `toml:"render"`
	Audio   AudioConfig   `toml:"audio"`
	Catalog CatalogConfig `toml:"catalog"`
	Notify  NotifyConfig  `toml:"notify"`
	Log     LogConfig     `toml:"log"`
}

// PopupConfig holds the popup animation timing and geometry.
type PopupConfig struct {
	Slide    Duration `toml:"slide"`     // One slide transition, e.g. "1s"
	Hold     Duration `toml:"hold"`      // Time fully shown, e.g. "3s"
	Width    int      `toml:"width"`     // Panel width; 0 = from the catalog's background rect
	OnScreen float64  `toml:"on_screen"` // Fully shown x position
	Curve    string   `toml:"curve"`     // "expo-in" or "cubic-in"
}

// RenderConfig holds render loop settings.
type RenderConfig struct {
	FPS            int     `toml:"fps"`
	IdleMode       string  `toml:"idle_mode"` // "block" or "poll"
	TextOffsetX    float64 `toml:"text_offset_x"`
	TitleY         float64 `toml:"title_y"`
	NameY          float64 `toml:"name_y"`
	Title          string  `toml:"title"`
	ColumnsPerUnit float64 `toml:"columns_per_unit"` // Terminal columns per layout unit
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	Enabled     bool     `toml:"enabled"`
	Volume      int      `toml:"volume"`       // 0-100
	Buffer      Duration `toml:"buffer"`       // Speaker buffer length
	SilentTrack Duration `toml:"silent_track"` // Track length when audio is disabled
}

// CatalogConfig holds track catalog settings.
type CatalogConfig struct {
	Path     string `toml:"path"`      // Catalog file (.json, .yaml, .toml)
	MusicDir string `toml:"music_dir"` // Track directory; default "music" next to the catalog
	Watch    bool   `toml:"watch"`     // Reload the catalog when it changes
	NoRepeat bool   `toml:"no_repeat"` // Never pick the same track twice in a row
}

// NotifyConfig holds desktop notification settings.
type NotifyConfig struct {
	Desktop bool `toml:"desktop"` // Also send a desktop notification per track
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // error, warn, info, debug
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Popup: PopupConfig{
			Slide:    Duration(DefaultSlide),
			Hold:     Duration(DefaultHold),
			Width:    0,
			OnScreen: 0,
			Curve:    easing.CurveExpoIn,
		},
		Render: RenderConfig{
			FPS:            DefaultFPS,
			IdleMode:       DefaultIdleMode,
			TextOffsetX:    DefaultTextOffsetX,
			TitleY:         DefaultTitleY,
			NameY:          DefaultNameY,
			Title:          DefaultTitle,
			ColumnsPerUnit: DefaultColumnsPerUnit,
		},
		Audio: AudioConfig{
			Enabled:     true,
			Volume:      DefaultVolume,
			Buffer:      Duration(DefaultBuffer),
			SilentTrack: Duration(DefaultSilentTrack),
		},
		Catalog: CatalogConfig{
			Path: "", // Resolved by CatalogPath
		},
		Notify: NotifyConfig{
			Desktop: false,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// configDir returns the nowplaying config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func configDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "nowplaying")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// CatalogPath returns the catalog file to load: the configured path with
// ~ expanded, or list.json in the config directory.
func (c *Config) CatalogPath() string {
	if c.Catalog.Path != "" {
		return expandPath(c.Catalog.Path)
	}
	return filepath.Join(configDir(), DefaultCatalogFile)
}

// PanelWidth returns the configured panel width, falling back to the
// catalog's background width and then to DefaultPanelWidth.
func (c *Config) PanelWidth(catalogWidth int) int {
	switch {
	case c.Popup.Width > 0:
		return c.Popup.Width
	case catalogWidth > 0:
		return catalogWidth
	default:
		return DefaultPanelWidth
	}
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed and writes atomically via a temp file.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Popup.Slide.Duration() <= 0 {
		return fmt.Errorf("popup.slide must be positive, got %s", c.Popup.Slide.Duration())
	}
	if c.Popup.Hold.Duration() < 0 {
		return fmt.Errorf("popup.hold must not be negative, got %s", c.Popup.Hold.Duration())
	}
	if c.Popup.Width < 0 {
		return fmt.Errorf("popup.width must not be negative, got %d", c.Popup.Width)
	}
	if _, err := easing.ParseCurve(c.Popup.Curve); err != nil {
		return fmt.Errorf("popup.curve: %w", err)
	}

	if c.Render.FPS < 1 || c.Render.FPS > 240 {
		return fmt.Errorf("render.fps must be between 1 and 240, got %d", c.Render.FPS)
	}
	switch strings.ToLower(c.Render.IdleMode) {
	case "block", "poll":
	default:
		return fmt.Errorf("render.idle_mode must be block or poll, got %q", c.Render.IdleMode)
	}
	if c.Render.ColumnsPerUnit <= 0 {
		return fmt.Errorf("render.columns_per_unit must be positive, got %v", c.Render.ColumnsPerUnit)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("audio.volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	if c.Audio.Buffer.Duration() <= 0 {
		return fmt.Errorf("audio.buffer must be positive, got %s", c.Audio.Buffer.Duration())
	}
	if !c.Audio.Enabled && c.Audio.SilentTrack.Duration() <= 0 {
		return fmt.Errorf("audio.silent_track must be positive when audio is disabled, got %s", c.Audio.SilentTrack.Duration())
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// ParseLogLevel converts a level name to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be error, warn, info, or debug)", level)
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
