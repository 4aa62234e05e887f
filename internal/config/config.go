// Package config provides YAML-based configuration loading for the engine.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tickengine/internal/core"
	"github.com/vovakirdan/tickengine/internal/pacer"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Backend names a display implementation.
type Backend string

const (
	BackendSDL      Backend = "sdl"
	BackendTerminal Backend = "terminal"
	BackendHeadless Backend = "headless"
)

// Backends lists the supported backends in display order.
func Backends() []Backend {
	return []Backend{BackendSDL, BackendTerminal, BackendHeadless}
}

// ParseBackend converts a flag or config value to a Backend.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Backends() {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, s)
}

// Config contains everything needed to start the render loop.
type Config struct {
	Window   WindowConfig    `yaml:"window"`
	Loop     LoopConfig      `yaml:"loop"`
	Display  DisplayConfig   `yaml:"display"`
	Font     FontConfig      `yaml:"font"`
	Text     TextConfig      `yaml:"text"`
	Textures []TextureConfig `yaml:"textures"`
	Audio    AudioConfig     `yaml:"audio"`
	Input    InputConfig     `yaml:"input"`
}

// WindowConfig defines the initial window.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// LoopConfig defines the simulation timing.
type LoopConfig struct {
	FixedStepMs    float64 `yaml:"fixed_step_ms"`     // Simulation quantum
	FPSCap         int     `yaml:"fps_cap"`           // 0 = follow the display refresh rate
	MaxFrameTimeMs float64 `yaml:"max_frame_time_ms"` // 0 = no clamp on a single frame sample
}

// DisplayConfig selects the backend and the refresh-rate policy.
type DisplayConfig struct {
	Backend           string `yaml:"backend"`
	RefreshPolicy     string `yaml:"refresh_policy"`      // "clamp" or "fail"
	FallbackRefreshHz int    `yaml:"fallback_refresh_hz"` // Used by the clamp policy
	TerminalRefreshHz int    `yaml:"terminal_refresh_hz"` // Terminals report no rate of their own
}

// FontConfig defines the text font.
type FontConfig struct {
	Path            string  `yaml:"path"`
	Size            int     `yaml:"size"`             // Windowed size in pixels
	FullscreenScale float64 `yaml:"fullscreen_scale"` // Fullscreen size = Size * scale
}

// TextConfig defines the text drawn every frame.
type TextConfig struct {
	Content string  `yaml:"content"`
	X       float64 `yaml:"x"` // Relative anchor, 0..1
	Y       float64 `yaml:"y"`
	Align   string  `yaml:"align"`
	Color   []int   `yaml:"color"` // [r, g, b]
}

// TextureConfig places an image on screen.
type TextureConfig struct {
	Path string `yaml:"path"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	W    int    `yaml:"w"` // 0 = native width
	H    int    `yaml:"h"` // 0 = native height
}

// AudioConfig defines background music playback.
type AudioConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Music         string  `yaml:"music"`
	SampleRate    int     `yaml:"sample_rate"`
	BufferSamples int     `yaml:"buffer_samples"`
	Volume        float64 `yaml:"volume"` // Exponential gain, 0 = unchanged
}

// InputConfig defines key bindings.
type InputConfig struct {
	FullscreenKey string `yaml:"fullscreen_key"`
}

// Validate checks the configuration for values the loop cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.Loop.FixedStepMs <= 0 {
		errs = append(errs, fmt.Errorf("loop.fixed_step_ms must be positive, got %v", c.Loop.FixedStepMs))
	}
	if c.Loop.FPSCap < 0 {
		errs = append(errs, fmt.Errorf("loop.fps_cap must not be negative, got %d", c.Loop.FPSCap))
	}
	if c.Loop.MaxFrameTimeMs < 0 {
		errs = append(errs, fmt.Errorf("loop.max_frame_time_ms must not be negative, got %v", c.Loop.MaxFrameTimeMs))
	}
	if _, err := ParseBackend(c.Display.Backend); err != nil {
		errs = append(errs, err)
	}
	if _, err := pacer.ParseRefreshPolicy(c.Display.RefreshPolicy); err != nil {
		errs = append(errs, err)
	}
	if c.Display.FallbackRefreshHz <= 0 {
		errs = append(errs, fmt.Errorf("display.fallback_refresh_hz must be positive, got %d", c.Display.FallbackRefreshHz))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Font.Size <= 0 {
		errs = append(errs, fmt.Errorf("font.size must be positive, got %d", c.Font.Size))
	}
	if c.Font.FullscreenScale <= 0 {
		errs = append(errs, fmt.Errorf("font.fullscreen_scale must be positive, got %v", c.Font.FullscreenScale))
	}
	if _, err := core.ParseAlignment(c.Text.Align); err != nil {
		errs = append(errs, err)
	}
	if _, err := core.ColorFromSlice(c.Text.Color); err != nil {
		errs = append(errs, err)
	}
	for i, tex := range c.Textures {
		if tex.Path == "" {
			errs = append(errs, fmt.Errorf("textures[%d].path is empty", i))
		}
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate))
	}
	if strings.TrimSpace(c.Input.FullscreenKey) == "" {
		errs = append(errs, errors.New("input.fullscreen_key is empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// BackendName returns the parsed backend, defaulting to SDL.
func (c Config) BackendName() Backend {
	b, err := ParseBackend(c.Display.Backend)
	if err != nil {
		return BackendSDL
	}
	return b
}

// Policy returns the parsed refresh policy, defaulting to clamp.
func (c Config) Policy() pacer.RefreshPolicy {
	p, err := pacer.ParseRefreshPolicy(c.Display.RefreshPolicy)
	if err != nil {
		return pacer.PolicyClamp
	}
	return p
}

// FontSizes returns the windowed and fullscreen font sizes.
func (c Config) FontSizes() core.FontSizes {
	return core.NewFontSizes(c.Font.Size, c.Font.FullscreenScale)
}

// TextColor returns the parsed text color, defaulting to white.
func (c Config) TextColor() core.Color {
	col, err := core.ColorFromSlice(c.Text.Color)
	if err != nil {
		return core.ColorWhite
	}
	return col
}

// TextAlignment returns the parsed text alignment, defaulting to center.
func (c Config) TextAlignment() core.Alignment {
	a, err := core.ParseAlignment(c.Text.Align)
	if err != nil {
		return core.AlignCenter
	}
	return a
}

// TextPosition returns the relative text anchor.
func (c Config) TextPosition() core.Vec2 {
	return core.Vec2{X: c.Text.X, Y: c.Text.Y}
}

// FullscreenKey returns the normalized toggle key.
func (c Config) FullscreenKey() core.Key {
	return core.NormalizeKey(c.Input.FullscreenKey)
}
