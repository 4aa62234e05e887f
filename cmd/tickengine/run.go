package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vovakirdan/tickengine/internal/app"
	"github.com/vovakirdan/tickengine/internal/config"
	"github.com/vovakirdan/tickengine/internal/pacer"
	"github.com/vovakirdan/tickengine/internal/platform/headless"
	"github.com/vovakirdan/tickengine/internal/platform/tui"
	"github.com/vovakirdan/tickengine/internal/storage"
)

var (
	flagBackend    string
	flagFullscreen bool
	flagWindowed   bool
	flagFPSCap     int
	flagStep       float64
	flagDuration   time.Duration
	flagNoAudio    bool
	flagSnapshot   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the render loop",
	Long: `Open the display and run the loop until the window is closed.

Controls:
  F          - Toggle fullscreen (input.fullscreen_key)
  Ctrl+C     - Quit (terminal backend)

Backends:
  sdl       - Desktop window (default)
  terminal  - Draw into the current terminal
  headless  - No output; use --duration to end the run

Examples:
  tickengine run
  tickengine run --windowed --fps 30
  tickengine run --backend terminal
  tickengine run --backend headless --duration 10s --step 5
  tickengine run --backend headless --duration 2s --snapshot`,
	Run: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagBackend, "backend", "", "Display backend: sdl, terminal, headless")
	runCmd.Flags().BoolVar(&flagFullscreen, "fullscreen", false, "Start fullscreen")
	runCmd.Flags().BoolVar(&flagWindowed, "windowed", false, "Start windowed")
	runCmd.Flags().IntVar(&flagFPSCap, "fps", 0, "Frame rate cap (0 = display refresh rate)")
	runCmd.Flags().Float64Var(&flagStep, "step", 0, "Fixed simulation step in milliseconds")
	runCmd.Flags().DurationVar(&flagDuration, "duration", 0, "Stop after this much loop time (0 = until quit)")
	runCmd.Flags().BoolVar(&flagNoAudio, "no-audio", false, "Disable background music")
	runCmd.Flags().BoolVar(&flagSnapshot, "snapshot", false, "Print the last frame after a headless run")
	runCmd.MarkFlagsMutuallyExclusive("fullscreen", "windowed")
}

// applyRunFlags overrides cfg with the flags set on the command line.
func applyRunFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	if flags.Changed("backend") {
		b, err := config.ParseBackend(flagBackend)
		if err != nil {
			return err
		}
		cfg.Display.Backend = string(b)
	}
	if flags.Changed("fullscreen") {
		cfg.Window.Fullscreen = flagFullscreen
	}
	if flags.Changed("windowed") {
		cfg.Window.Fullscreen = !flagWindowed
	}
	if flags.Changed("fps") {
		cfg.Loop.FPSCap = flagFPSCap
	}
	if flags.Changed("step") {
		cfg.Loop.FixedStepMs = flagStep
	}
	if flags.Changed("no-audio") && flagNoAudio {
		cfg.Audio.Enabled = false
	}
	return cfg.Validate()
}

func runRun(cmd *cobra.Command, _ []string) {
	logger := newLogger()

	cfg, source, err := config.Load(flagConfigPath)
	if err != nil {
		fail("%v", err)
	}
	if err := applyRunFlags(cmd.Flags(), &cfg); err != nil {
		fail("%v", err)
	}
	backend := cfg.BackendName()
	logger.Debug("config loaded", "source", source, "backend", backend)

	// The terminal backend owns the screen; hold log output until it is released.
	var held bytes.Buffer
	if backend == config.BackendTerminal {
		logger.SetOutput(&held)
	}

	rt, err := app.Build(app.Options{
		Config:        cfg,
		Backend:       backend,
		Logger:        logger,
		MaxDurationMs: pacer.Millis(flagDuration),
		NoAudio:       flagNoAudio,
	})
	if err != nil {
		os.Stderr.Write(held.Bytes())
		fail("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, runErr := rt.Run(ctx)
	if d, ok := rt.Display().(*headless.Display); ok && flagSnapshot {
		if snap := d.Snapshot(); snap != nil {
			fmt.Println(tui.RenderScreen(snap))
		}
	}
	closeErr := rt.Close()

	if backend == config.BackendTerminal {
		os.Stderr.Write(held.Bytes())
		logger.SetOutput(os.Stderr)
	}
	if closeErr != nil {
		logger.Warn("teardown failed", "err", closeErr)
	}

	logger.Info("session",
		"frames", stats.Frames,
		"steps", stats.Steps,
		"overruns", stats.Overruns,
		"toggles", stats.Toggles,
		"elapsed", stats.Elapsed.Round(time.Millisecond),
		"fps", fmt.Sprintf("%.1f", stats.FPS()),
		"reason", stats.EndReason,
	)

	if store, err := storage.Open(flagDBPath); err != nil {
		logger.Warn("could not open session database", "err", err)
	} else {
		app.Record(store, string(backend), stats, logger)
		store.Close()
	}

	if runErr != nil {
		fail("%v", runErr)
	}
}
