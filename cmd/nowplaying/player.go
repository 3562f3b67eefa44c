package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/nowplaying/internal/announce"
	"github.com/jmylchreest/nowplaying/internal/audio"
	"github.com/jmylchreest/nowplaying/internal/catalog"
	"github.com/jmylchreest/nowplaying/internal/config"
	"github.com/jmylchreest/nowplaying/internal/easing"
	"github.com/jmylchreest/nowplaying/internal/notify"
	"github.com/jmylchreest/nowplaying/internal/playback"
	"github.com/jmylchreest/nowplaying/internal/popup"
	"github.com/jmylchreest/nowplaying/internal/render"
	"github.com/jmylchreest/nowplaying/internal/tui"
)

// errQuit is returned by the terminal surface when the user quits.
var errQuit = errors.New("quit requested")

var playerOpts struct {
	headless bool
	idle     string
}

func init() {
	rootCmd.Flags().BoolVar(&playerOpts.headless, "headless", false,
		"Log popup stages instead of drawing the terminal toast")
	rootCmd.Flags().StringVar(&playerOpts.idle, "idle", "",
		"Idle behaviour between tracks: block or poll (default from config)")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	level, err := playerLogLevel()
	if err != nil {
		return err
	}
	setupLogger(level)

	catalogPath := cfg.CatalogPath()
	catalogOpts := catalog.Options{
		MusicDir: cfg.Catalog.MusicDir,
		Logger:   logger,
	}
	cat, err := catalog.Load(catalogPath, catalogOpts)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	out, closeOutput, err := openOutput()
	if err != nil {
		return err
	}
	defer closeOutput()

	if playerOpts.idle != "" {
		cfg.Render.IdleMode = playerOpts.idle
	}
	idle, err := render.ParseIdleMode(cfg.Render.IdleMode)
	if err != nil {
		return err
	}

	curve, err := easing.ParseCurve(cfg.Popup.Curve)
	if err != nil {
		return err
	}

	width := cfg.PanelWidth(cat.Background.Width())
	p, err := popup.New(popup.Options{
		SlideDuration: cfg.Popup.Slide.Duration(),
		HoldDuration:  cfg.Popup.Hold.Duration(),
		OffScreen:     -float64(width),
		OnScreen:      cfg.Popup.OnScreen,
		Curve:         curve,
	})
	if err != nil {
		return err
	}

	tx, rx := announce.New()
	defer rx.Close()

	driver := playback.NewDriver(cat, out, tx, logger,
		playback.WithNoRepeat(cfg.Catalog.NoRepeat))

	if cfg.Catalog.Watch {
		watcher, err := catalog.NewWatcher(catalogPath, catalogOpts, driver.SetCatalog)
		if err != nil {
			return fmt.Errorf("failed to create catalog watcher: %w", err)
		}
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.Warn("failed to stop catalog watcher", "error", err)
			}
		}()
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to watch catalog: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	var surface render.Surface
	if playerOpts.headless {
		surface = render.NewLogSurface(logger)
	} else {
		program, s := tui.NewProgram(tui.Options{
			PanelWidth:     width,
			ColumnsPerUnit: cfg.Render.ColumnsPerUnit,
		}, tea.WithContext(gctx))
		surface = s

		g.Go(func() error {
			if _, err := program.Run(); err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("terminal toast failed: %w", err)
			}
			return errQuit
		})
	}

	loop := render.NewLoop(p, rx, surface, render.Options{
		Layout: render.Layout{
			TextOffsetX: cfg.Render.TextOffsetX,
			TitleY:      cfg.Render.TitleY,
			NameY:       cfg.Render.NameY,
			Title:       cfg.Render.Title,
		},
		Idle:   idle,
		FPS:    cfg.Render.FPS,
		Logger: logger,
	})

	if cfg.Notify.Desktop {
		loop.OnAnnounce(notify.NewDesktop(cfg.Render.Title, logger).Announce)
	}

	logger.Info("player started",
		"catalog", catalogPath,
		"tracks", cat.Len(),
		"idle", idle,
		"headless", playerOpts.headless,
	)

	var driverErr error
	g.Go(func() error {
		driverErr = driver.Run(gctx)
		return driverErr
	})
	g.Go(func() error {
		return loop.Run(gctx)
	})

	err = g.Wait()
	logger.Info("player stopped", "played", driver.Played())

	// A failing track closes the queue, so the render loop may report the
	// closed queue first. The track error is the one worth showing.
	if driverErr != nil && !isCancel(driverErr) {
		return driverErr
	}
	if err == nil || errors.Is(err, errQuit) || isCancel(err) {
		return nil
	}
	return err
}

// openOutput opens the audio device, or a silent output when audio is off.
func openOutput() (playback.Output, func(), error) {
	if !cfg.Audio.Enabled {
		logger.Info("audio disabled", "track_length", cfg.Audio.SilentTrack.Duration())
		return audio.Silent{Duration: cfg.Audio.SilentTrack.Duration()}, func() {}, nil
	}

	player := audio.NewPlayer(logger)
	player.SetBuffer(cfg.Audio.Buffer.Duration())
	player.SetVolume(float64(cfg.Audio.Volume) / 100)

	if err := player.Open(); err != nil {
		return nil, nil, err
	}
	return player, player.Close, nil
}

// playerLogLevel returns the log level for a player run. The terminal
// toast shares stderr with the log, so it only shows warnings and up.
func playerLogLevel() (slog.Level, error) {
	level, err := config.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return level, err
	}
	if !playerOpts.headless && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	return level, nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
