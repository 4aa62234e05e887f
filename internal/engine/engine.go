// Package engine drives the fixed-timestep render loop.
//
// One Engine owns one pacer.LoopState. Each iteration samples the clock, drains
// the accumulated time in fixed steps (polling events inside every step), draws a
// frame and sleeps whatever is left of the frame budget. Everything runs on the
// goroutine that called Run.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tickengine/internal/core"
	"github.com/vovakirdan/tickengine/internal/pacer"
)

// Status is the state of the loop.
type Status int

const (
	Idle    Status = iota // Created, Run not called
	Running               // Iterating
	Stopped               // Terminal
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// ErrAlreadyRun is returned by a second call to Run.
var ErrAlreadyRun = errors.New("engine: loop already ran")

// Engine is the loop driver.
type Engine struct {
	opts    Options
	display core.Display
	events  core.EventSource
	font    core.Font
	clock   pacer.Clock
	sleeper pacer.Sleeper
	logger  *log.Logger

	res    pacer.Resolution
	state  *pacer.LoopState
	status Status
	stats  Stats
	err    error
	start  float64
}

// New validates opts and resolves the initial frame interval.
// An invalid refresh rate under pacer.PolicyFail is reported here, before any
// frame is drawn.
func New(opts Options) (*Engine, error) {
	if opts.Display == nil {
		return nil, errors.New("engine: display is required")
	}
	if opts.Events == nil {
		return nil, errors.New("engine: event source is required")
	}
	if opts.Font == nil {
		return nil, errors.New("engine: font is required")
	}
	if opts.FixedStepMs <= 0 {
		return nil, fmt.Errorf("engine: %w: fixed step %v", pacer.ErrInvalidStep, opts.FixedStepMs)
	}
	if opts.RefreshPolicy == "" {
		opts.RefreshPolicy = pacer.PolicyClamp
	}
	if opts.FallbackRefreshHz <= 0 {
		opts.FallbackRefreshHz = pacer.DefaultRefreshHz
	}
	if opts.FontSizes == (core.FontSizes{}) {
		opts.FontSizes = core.FontSizes{Windowed: opts.Font.Size(), Fullscreen: opts.Font.Size()}
	}

	e := &Engine{
		opts:    opts,
		display: opts.Display,
		events:  opts.Events,
		font:    opts.Font,
		clock:   opts.Clock,
		sleeper: opts.Sleeper,
		logger:  opts.Logger,
	}
	if e.clock == nil {
		e.clock = pacer.NewSystemClock()
	}
	if e.sleeper == nil {
		e.sleeper = pacer.SystemSleeper{}
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}

	res, err := e.resolveInterval()
	if err != nil {
		return nil, err
	}
	e.res = res
	e.logger.Info("refresh rate", "hz", res.Hz, "interval_ms", fmt.Sprintf("%.3f", res.Interval))

	return e, nil
}

// Run iterates until a quit event, cancellation of ctx, the optional deadline or
// a fatal display error. Cancellation is only observed at the next event drain;
// a sleep in progress is never interrupted.
//
// The returned Stats are valid even when err is non-nil.
func (e *Engine) Run(ctx context.Context) (Stats, error) {
	if e.status != Idle {
		return e.stats, ErrAlreadyRun
	}

	e.start = e.clock.NowMs()
	state, err := pacer.NewLoopState(e.start, e.opts.FixedStepMs, e.res.Interval)
	if err != nil {
		return e.stats, fmt.Errorf("engine: %w", err)
	}
	state.MaxFrameTime = e.opts.MaxFrameTimeMs
	e.state = state
	e.status = Running
	e.stats = Stats{
		StartedAt:   time.Now(),
		FixedStepMs: e.opts.FixedStepMs,
		IntervalMs:  e.res.Interval,
		RefreshHz:   e.res.Hz,
	}

	e.logger.Info("loop started",
		"step_ms", e.opts.FixedStepMs,
		"interval_ms", fmt.Sprintf("%.3f", e.res.Interval),
		"fullscreen", e.display.IsFullScreen(),
	)

	for e.state.Running {
		iterStart := e.clock.NowMs()

		steps, alpha := pacer.Tick(e.state, iterStart, func() { e.step(ctx) })
		e.stats.Steps += steps

		if !e.state.Running {
			break
		}

		if err := e.render(alpha); err != nil {
			e.fail(EndError, err)
			break
		}
		e.stats.Frames++

		iterEnd := e.clock.NowMs()
		if pacer.Overran(iterStart, iterEnd, e.state.TargetFrameInterval) {
			e.stats.Overruns++
			e.logger.Debug("frame overrun",
				"frame_ms", fmt.Sprintf("%.3f", iterEnd-iterStart),
				"budget_ms", fmt.Sprintf("%.3f", e.state.TargetFrameInterval),
			)
		}
		e.sleeper.Sleep(pacer.CapFrameRate(iterStart, iterEnd, e.state.TargetFrameInterval))
	}

	e.status = Stopped
	e.stats.Elapsed = pacer.Duration(e.clock.NowMs() - e.start)
	e.stats.IntervalMs = e.state.TargetFrameInterval
	e.stats.RefreshHz = e.res.Hz

	e.logger.Info("loop stopped",
		"reason", e.stats.EndReason,
		"frames", e.stats.Frames,
		"steps", e.stats.Steps,
		"overruns", e.stats.Overruns,
		"elapsed", e.stats.Elapsed.Round(time.Millisecond),
	)

	return e.stats, e.err
}

// Status returns the current loop status.
func (e *Engine) Status() Status {
	return e.status
}

// State returns the loop state, or nil before Run.
func (e *Engine) State() *pacer.LoopState {
	return e.state
}

// Interval returns the frame interval currently in effect.
func (e *Engine) Interval() float64 {
	if e.state != nil {
		return e.state.TargetFrameInterval
	}
	return e.res.Interval
}

// step is the fixed-step callback: drain events, then advance the simulation once.
func (e *Engine) step(ctx context.Context) {
	if !e.state.Running {
		return
	}

	if ctx.Err() != nil {
		e.stop(EndCancelled)
		return
	}
	if e.opts.MaxDurationMs > 0 && e.state.CurrentTime-e.start >= e.opts.MaxDurationMs {
		e.stop(EndDeadline)
		return
	}

	for ev := range e.events.Events() {
		switch ev.Kind {
		case core.EventQuit:
			e.stop(EndQuit)
		case core.EventKeyUp:
			if ev.Key == e.opts.FullscreenKey {
				e.toggleFullScreen()
			}
		case core.EventResize:
			e.logger.Debug("display resized", "w", ev.W, "h", ev.H)
		}
		if !e.state.Running {
			return
		}
	}

	if e.opts.Update != nil {
		e.opts.Update(e.opts.FixedStepMs)
	}
}

// toggleFullScreen flips the presentation mode, resizes the font to match and
// re-validates the refresh rate, which may differ between modes.
func (e *Engine) toggleFullScreen() {
	if err := e.display.ToggleFullScreen(); err != nil {
		e.logger.Warn("fullscreen toggle failed", "error", err)
		return
	}
	e.stats.Toggles++

	fullscreen := e.display.IsFullScreen()
	size := e.opts.FontSizes.For(fullscreen)
	if err := e.font.Resize(size); err != nil {
		e.logger.Warn("font resize failed", "size", size, "error", err)
	}
	e.logger.Debug("fullscreen toggled", "fullscreen", fullscreen, "font_size", size)

	res, err := e.resolveInterval()
	if err != nil {
		e.fail(EndRefreshRate, err)
		return
	}
	if res.Interval != e.state.TargetFrameInterval {
		e.logger.Info("frame interval changed", "hz", res.Hz, "interval_ms", fmt.Sprintf("%.3f", res.Interval))
	}
	e.res = res
	e.state.TargetFrameInterval = res.Interval
}

// resolveInterval derives the frame interval from the FPS cap or the display.
func (e *Engine) resolveInterval() (pacer.Resolution, error) {
	hz := e.opts.FPSCap
	source := "fps_cap"
	if hz <= 0 {
		hz = e.display.RefreshRateHz()
		source = "display"
	}

	res, err := pacer.ResolveInterval(hz, e.opts.RefreshPolicy, e.opts.FallbackRefreshHz)
	if err != nil {
		return res, fmt.Errorf("engine: %s reported %d Hz: %w", source, hz, err)
	}
	if res.Clamped {
		e.logger.Warn("refresh rate invalid, clamping",
			"source", source,
			"reported_hz", res.Reported,
			"using_hz", res.Hz,
		)
	}
	return res, nil
}

// render draws one frame. Texture and text failures are logged and skipped;
// failing to clear or present the frame ends the loop.
func (e *Engine) render(alpha float64) error {
	if e.opts.Interpolate != nil {
		e.opts.Interpolate(alpha)
	}

	if err := e.display.Clear(); err != nil {
		return fmt.Errorf("engine: clear: %w", err)
	}

	for i, tex := range e.opts.Textures {
		if err := e.display.RenderTexture(tex); err != nil {
			e.logger.Debug("texture render failed", "index", i, "error", err)
		}
	}

	if t := e.opts.Text; t.Content != "" {
		if err := e.display.RenderText(e.font, t.Content, t.Pos, t.Align, t.Color); err != nil {
			e.logger.Debug("text render failed", "error", err)
		}
	}

	if err := e.display.Present(); err != nil {
		return fmt.Errorf("engine: present: %w", err)
	}
	return nil
}

func (e *Engine) stop(reason EndReason) {
	if !e.state.Running {
		return
	}
	e.state.Running = false
	e.stats.EndReason = reason
}

func (e *Engine) fail(reason EndReason, err error) {
	e.stop(reason)
	if e.err == nil {
		e.err = err
	}
}
