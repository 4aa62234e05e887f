// Package app assembles a runnable loop from configuration: it opens the
// selected backend, loads the font and textures, starts the music and turns
// the finished run into a session record.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tickengine/internal/audio"
	"github.com/vovakirdan/tickengine/internal/config"
	"github.com/vovakirdan/tickengine/internal/core"
	"github.com/vovakirdan/tickengine/internal/engine"
	"github.com/vovakirdan/tickengine/internal/platform/console"
	"github.com/vovakirdan/tickengine/internal/platform/headless"
	"github.com/vovakirdan/tickengine/internal/platform/sdlwin"
	"github.com/vovakirdan/tickengine/internal/storage"
)

// Options selects what Build assembles.
type Options struct {
	Config  config.Config
	Backend config.Backend
	Logger  *log.Logger

	// Screen replaces the process terminal for the terminal backend.
	Screen tcell.Screen

	// MaxDurationMs ends the run after this much loop time. Zero runs until quit.
	MaxDurationMs float64

	NoAudio bool
}

// Runtime is an assembled loop and the resources it owns.
type Runtime struct {
	Engine  *engine.Engine
	Backend config.Backend

	display core.Display
	music   core.Music
	logger  *log.Logger
	closers []func() error
}

// Build opens the backend and its assets. Display and asset failures are
// returned; audio failures only disable the music.
func Build(opts Options) (_ *Runtime, err error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Backend == "" {
		opts.Backend = opts.Config.BackendName()
	}

	rt := &Runtime{Backend: opts.Backend, music: audio.Nop{}, logger: opts.Logger}
	defer func() {
		if err != nil {
			_ = rt.Close()
		}
	}()

	eopts := engine.OptionsFromConfig(opts.Config)
	eopts.Logger = opts.Logger
	eopts.MaxDurationMs = opts.MaxDurationMs

	switch opts.Backend {
	case config.BackendSDL:
		err = rt.buildSDL(opts.Config, &eopts)
	case config.BackendTerminal:
		err = rt.buildTerminal(opts.Config, opts.Screen, &eopts)
	case config.BackendHeadless:
		rt.buildHeadless(opts.Config, &eopts)
	default:
		err = fmt.Errorf("app: unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	rt.display = eopts.Display

	if !opts.NoAudio && opts.Config.Audio.Enabled && opts.Backend != config.BackendHeadless {
		rt.openMusic(opts.Config)
	}

	rt.Engine, err = engine.New(eopts)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (rt *Runtime) buildSDL(cfg config.Config, eopts *engine.Options) error {
	win, err := sdlwin.Open(sdlwin.Options{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		Images:     len(cfg.Textures) > 0,
		Logger:     rt.logger,
	})
	if err != nil {
		return fmt.Errorf("%w (is a display available? try --backend terminal)", err)
	}
	rt.closers = append(rt.closers, win.Close)

	font, err := sdlwin.OpenFont(cfg.Font.Path, cfg.FontSizes().For(cfg.Window.Fullscreen))
	if err != nil {
		return err
	}
	rt.closers = append(rt.closers, func() error { font.Close(); return nil })

	for _, tc := range cfg.Textures {
		tex, err := win.LoadTexture(tc.Path, tc.X, tc.Y, tc.W, tc.H)
		if err != nil {
			return err
		}
		rt.closers = append(rt.closers, func() error { tex.Destroy(); return nil })
		eopts.Textures = append(eopts.Textures, tex)
	}

	eopts.Display = win
	eopts.Events = win
	eopts.Font = font
	eopts.Clock = sdlwin.NewClock()
	eopts.Sleeper = sdlwin.Sleeper{}
	return nil
}

func (rt *Runtime) buildTerminal(cfg config.Config, screen tcell.Screen, eopts *engine.Options) error {
	d, err := console.New(console.Options{
		Screen:     screen,
		Title:      cfg.Window.Title,
		RefreshHz:  cfg.Display.TerminalRefreshHz,
		Fullscreen: cfg.Window.Fullscreen,
		Logger:     rt.logger,
	})
	if err != nil {
		return err
	}
	rt.closers = append(rt.closers, d.Close)

	for _, tc := range cfg.Textures {
		tex, err := console.LoadTexture(tc.Path, tc.X, tc.Y, tc.W, tc.H)
		if err != nil {
			return err
		}
		eopts.Textures = append(eopts.Textures, tex)
	}

	sizes := cfg.FontSizes()
	eopts.Display = d
	eopts.Events = d
	eopts.Font = console.NewFont(sizes.Windowed, sizes.For(cfg.Window.Fullscreen))
	return nil
}

func (rt *Runtime) buildHeadless(cfg config.Config, eopts *engine.Options) {
	d := headless.NewDisplay(headless.Options{
		RefreshHz:  cfg.Display.FallbackRefreshHz,
		Fullscreen: cfg.Window.Fullscreen,
	})
	rt.closers = append(rt.closers, d.Close)

	for _, tc := range cfg.Textures {
		w, h := tc.W, tc.H
		if w <= 0 {
			w = 1
		}
		if h <= 0 {
			h = 1
		}
		eopts.Textures = append(eopts.Textures, headless.NewTexture(core.NewRect(tc.X, tc.Y, w, h), '#'))
	}

	eopts.Display = d
	eopts.Events = &core.EventQueue{}
	eopts.Font = headless.NewFont(cfg.FontSizes().For(cfg.Window.Fullscreen))
}

func (rt *Runtime) openMusic(cfg config.Config) {
	m, err := audio.Open(audio.Options{
		Path:          cfg.Audio.Music,
		SampleRate:    cfg.Audio.SampleRate,
		BufferSamples: cfg.Audio.BufferSamples,
		Volume:        cfg.Audio.Volume,
		Logger:        rt.logger,
	})
	if err != nil {
		rt.logger.Warn("audio unavailable, continuing without music", "err", err)
		return
	}
	rt.music = m
	rt.closers = append(rt.closers, m.Close)
}

// Display returns the display the loop renders into.
func (rt *Runtime) Display() core.Display {
	return rt.display
}

// Run starts the music and runs the loop until it stops.
func (rt *Runtime) Run(ctx context.Context) (engine.Stats, error) {
	if err := rt.music.Play(); err != nil {
		rt.logger.Warn("music failed to start", "err", err)
	}
	return rt.Engine.Run(ctx)
}

// Close releases everything Build opened, newest first.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// SessionSaver persists session records.
type SessionSaver interface {
	SaveSession(storage.Session) (int64, error)
}

// SessionRecord converts loop statistics to a storage record.
func SessionRecord(backend string, stats engine.Stats) storage.Session {
	return storage.Session{
		Backend:     backend,
		StartedAt:   stats.StartedAt,
		Duration:    stats.Elapsed,
		Frames:      stats.Frames,
		Steps:       stats.Steps,
		Overruns:    stats.Overruns,
		Toggles:     stats.Toggles,
		FixedStepMs: stats.FixedStepMs,
		IntervalMs:  stats.IntervalMs,
		RefreshHz:   stats.RefreshHz,
		EndReason:   string(stats.EndReason),
	}
}

// Record saves the session when a store is available. Failures are logged,
// never returned: history is best effort.
func Record(store SessionSaver, backend string, stats engine.Stats, logger *log.Logger) {
	if store == nil {
		return
	}
	id, err := store.SaveSession(SessionRecord(backend, stats))
	if err != nil {
		logger.Warn("could not save session", "err", err)
		return
	}
	logger.Debug("session saved", "id", id)
}
