package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, time.Second, cfg.Popup.Slide.Duration())
	assert.Equal(t, 3*time.Second, cfg.Popup.Hold.Duration())
	assert.Equal(t, "expo-in", cfg.Popup.Curve)
	assert.Equal(t, 60, cfg.Render.FPS)
	assert.Equal(t, "block", cfg.Render.IdleMode)
	assert.Equal(t, 20.0, cfg.Render.TextOffsetX)
	assert.Equal(t, 15.0, cfg.Render.TitleY)
	assert.Equal(t, 50.0, cfg.Render.NameY)
	assert.Equal(t, "Play Now", cfg.Render.Title)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, 100, cfg.Audio.Volume)
	assert.False(t, cfg.Notify.Desktop)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[popup]
slide = "750ms"
hold = "5000"
width = 420
on_screen = 8.0
curve = "cubic-in"

[render]
fps = 30
idle_mode = "poll"
title = "Now Playing"

[audio]
enabled = false
volume = 40
silent_track = "10s"

[catalog]
path = "/srv/music/list.yaml"
music_dir = "tracks"
watch = true
no_repeat = true

[notify]
desktop = true

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.Popup.Slide.Duration())
	assert.Equal(t, 5*time.Second, cfg.Popup.Hold.Duration())
	assert.Equal(t, 420, cfg.Popup.Width)
	assert.Equal(t, 8.0, cfg.Popup.OnScreen)
	assert.Equal(t, "cubic-in", cfg.Popup.Curve)
	assert.Equal(t, 30, cfg.Render.FPS)
	assert.Equal(t, "poll", cfg.Render.IdleMode)
	assert.Equal(t, "Now Playing", cfg.Render.Title)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, 40, cfg.Audio.Volume)
	assert.Equal(t, 10*time.Second, cfg.Audio.SilentTrack.Duration())
	assert.Equal(t, "/srv/music/list.yaml", cfg.CatalogPath())
	assert.Equal(t, "tracks", cfg.Catalog.MusicDir)
	assert.True(t, cfg.Catalog.Watch)
	assert.True(t, cfg.Catalog.NoRepeat)
	assert.True(t, cfg.Notify.Desktop)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[popup]
hold = "2s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Changed field
	assert.Equal(t, 2*time.Second, cfg.Popup.Hold.Duration())

	// Unchanged fields should have defaults
	assert.Equal(t, time.Second, cfg.Popup.Slide.Duration())
	assert.Equal(t, 60, cfg.Render.FPS)
	assert.True(t, cfg.Audio.Enabled)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte(`this is not valid toml [`), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(path, []byte("[popup]\nslide = \"soon\"\n"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "invalid duration")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"zero slide", func(c *Config) { c.Popup.Slide = 0 }, "popup.slide"},
		{"negative hold", func(c *Config) { c.Popup.Hold = Duration(-time.Second) }, "popup.hold"},
		{"negative width", func(c *Config) { c.Popup.Width = -1 }, "popup.width"},
		{"unknown curve", func(c *Config) { c.Popup.Curve = "bounce" }, "popup.curve"},
		{"zero fps", func(c *Config) { c.Render.FPS = 0 }, "render.fps"},
		{"huge fps", func(c *Config) { c.Render.FPS = 1000 }, "render.fps"},
		{"idle mode", func(c *Config) { c.Render.IdleMode = "spin" }, "render.idle_mode"},
		{"columns", func(c *Config) { c.Render.ColumnsPerUnit = 0 }, "render.columns_per_unit"},
		{"volume", func(c *Config) { c.Audio.Volume = 101 }, "audio.volume"},
		{"buffer", func(c *Config) { c.Audio.Buffer = 0 }, "audio.buffer"},
		{"silent track", func(c *Config) { c.Audio.Enabled = false; c.Audio.SilentTrack = 0 }, "audio.silent_track"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Popup.Hold = Duration(7 * time.Second)
	cfg.Render.IdleMode = "poll"

	require.NoError(t, cfg.Save(path))

	// Verify file was created and the temp file is gone
	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, loaded.Popup.Hold.Duration())
	assert.Equal(t, "poll", loaded.Render.IdleMode)
}

func TestConfig_PanelWidth(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultPanelWidth, cfg.PanelWidth(0))
	assert.Equal(t, 250, cfg.PanelWidth(250))

	cfg.Popup.Width = 400
	assert.Equal(t, 400, cfg.PanelWidth(250))
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/nowplaying/config.toml", ConfigPath())
}

func TestConfigPathDefault(t *testing.T) {
	path := ConfigPath()
	assert.Contains(t, path, filepath.Join("nowplaying", "config.toml"))
}

func TestCatalogPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	cfg := DefaultConfig()
	assert.Equal(t, "/custom/config/nowplaying/list.json", cfg.CatalogPath())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cfg.Catalog.Path = "~/music/list.toml"
	assert.Equal(t, filepath.Join(home, "music", "list.toml"), cfg.CatalogPath())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLogLevel("trace")
	assert.Error(t, err)
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1500")))
	assert.Equal(t, 1500*time.Millisecond, d.Duration())

	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("later")))
}
