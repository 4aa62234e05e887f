package engine

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tickengine/internal/config"
	"github.com/vovakirdan/tickengine/internal/core"
	"github.com/vovakirdan/tickengine/internal/pacer"
)

// Text is the line of text drawn every frame.
type Text struct {
	Content string
	Pos     core.Vec2
	Align   core.Alignment
	Color   core.Color
}

// Options wires the loop to its collaborators.
type Options struct {
	Display  core.Display     // Required
	Events   core.EventSource // Required
	Font     core.Font        // Required
	Textures []core.Texture   // Drawn in order every frame
	Clock    pacer.Clock      // Defaults to a SystemClock
	Sleeper  pacer.Sleeper    // Defaults to time.Sleep
	Logger   *log.Logger      // Defaults to a discarding logger

	FixedStepMs       float64
	MaxFrameTimeMs    float64
	FPSCap            int // Overrides the display refresh rate when > 0
	RefreshPolicy     pacer.RefreshPolicy
	FallbackRefreshHz int
	FontSizes         core.FontSizes
	FullscreenKey     core.Key
	Text              Text

	// MaxDurationMs ends the loop once this much clock time has passed.
	// Zero runs until a quit event or cancellation.
	MaxDurationMs float64

	// Update runs once per fixed step, after the event drain.
	Update func(stepMs float64)

	// Interpolate receives the blend factor before each frame is drawn.
	Interpolate func(alpha float64)
}

// OptionsFromConfig fills the timing and presentation fields from cfg.
// Collaborators are left for the caller to set.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		FixedStepMs:       cfg.Loop.FixedStepMs,
		MaxFrameTimeMs:    cfg.Loop.MaxFrameTimeMs,
		FPSCap:            cfg.Loop.FPSCap,
		RefreshPolicy:     cfg.Policy(),
		FallbackRefreshHz: cfg.Display.FallbackRefreshHz,
		FontSizes:         cfg.FontSizes(),
		FullscreenKey:     cfg.FullscreenKey(),
		Text: Text{
			Content: cfg.Text.Content,
			Pos:     cfg.TextPosition(),
			Align:   cfg.TextAlignment(),
			Color:   cfg.TextColor(),
		},
	}
}
