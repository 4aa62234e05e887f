// Package headless provides a display that renders into an in-memory character
// buffer. It backs smoke runs on machines without a window system and the
// loop's integration tests.
package headless

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/tickengine/internal/core"
)

// Options configures a headless display.
type Options struct {
	Width      int // Columns
	Height     int // Rows
	RefreshHz  int
	Fullscreen bool
}

// Display is an off-screen core.Display.
type Display struct {
	screen     *core.Screen
	refreshHz  int
	fullscreen bool
	frames     int
	last       *core.Screen
}

// NewDisplay creates a headless display.
func NewDisplay(opts Options) *Display {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}
	return &Display{
		screen:     core.NewScreen(opts.Width, opts.Height),
		refreshHz:  opts.RefreshHz,
		fullscreen: opts.Fullscreen,
	}
}

// RefreshRateHz returns the configured rate.
func (d *Display) RefreshRateHz() int {
	return d.refreshHz
}

// SetRefreshRate changes the reported rate.
func (d *Display) SetRefreshRate(hz int) {
	d.refreshHz = hz
}

// ToggleFullScreen flips the presentation flag.
func (d *Display) ToggleFullScreen() error {
	d.fullscreen = !d.fullscreen
	return nil
}

// IsFullScreen reports the presentation flag.
func (d *Display) IsFullScreen() bool {
	return d.fullscreen
}

// Clear blanks the buffer.
func (d *Display) Clear() error {
	d.screen.Clear()
	return nil
}

// Present snapshots the buffer.
func (d *Display) Present() error {
	d.frames++
	d.last = d.screen.Clone()
	return nil
}

// RenderTexture fills the texture bounds with its glyph.
func (d *Display) RenderTexture(tex core.Texture) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("headless: %w", core.ErrForeignTexture)
	}
	d.screen.DrawRect(t.bounds, t.glyph, core.ColorWhite)
	return nil
}

// RenderText writes text anchored at pos inside the active area.
func (d *Display) RenderText(font core.Font, text string, pos core.Vec2, align core.Alignment, color core.Color) error {
	if _, ok := font.(*Font); !ok {
		return fmt.Errorf("headless: font %T belongs to another backend", font)
	}
	area := d.screen.Bounds()
	box := core.Place(area, pos, utf8.RuneCountInString(text), 1, align)
	d.screen.DrawText(box.X, box.Y, text, color)
	return nil
}

// Frames returns the number of presented frames.
func (d *Display) Frames() int {
	return d.frames
}

// LastFrame returns the text of the last presented frame.
func (d *Display) LastFrame() string {
	if d.last == nil {
		return ""
	}
	return d.last.String()
}

// Snapshot returns the last presented frame with its colors, or nil before the
// first Present.
func (d *Display) Snapshot() *core.Screen {
	return d.last
}

// Close is a no-op; it exists so every backend shares the same teardown path.
func (d *Display) Close() error {
	return nil
}

// Font records its size; headless text has no glyph metrics.
type Font struct {
	size int
}

// NewFont creates a font at the given size.
func NewFont(size int) *Font {
	return &Font{size: size}
}

// Size returns the current size.
func (f *Font) Size() int {
	return f.size
}

// Resize changes the size.
func (f *Font) Resize(size int) error {
	if size <= 0 {
		return fmt.Errorf("headless: invalid font size %d", size)
	}
	f.size = size
	return nil
}

// Texture is a filled rectangle standing in for an image.
type Texture struct {
	bounds core.Rect
	glyph  rune
}

// NewTexture creates a placeholder texture.
func NewTexture(bounds core.Rect, glyph rune) *Texture {
	return &Texture{bounds: bounds, glyph: glyph}
}

// Bounds returns the texture area in cells.
func (t *Texture) Bounds() core.Rect {
	return t.bounds
}
