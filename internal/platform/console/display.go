// Package console renders the loop into a terminal with tcell.
//
// Terminals have no fullscreen mode of their own: "windowed" draws into a
// bordered viewport centered in the terminal, "fullscreen" uses every cell.
// Terminal refresh rates are not observable, so the rate is configured.
package console

import (
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tickengine/internal/core"
)

// DefaultWindowScale is the share of the terminal used by the windowed viewport.
const DefaultWindowScale = 0.66

// eventBuffer bounds the events queued between two drains.
const eventBuffer = 256

// Options configures a console display.
type Options struct {
	// Screen is used as-is when set (SSH sessions, tests). Otherwise a screen is
	// created for the process terminal.
	Screen      tcell.Screen
	Title       string
	RefreshHz   int
	Fullscreen  bool
	WindowScale float64
	Logger      *log.Logger
}

// Display is a tcell-backed core.Display and core.EventSource.
type Display struct {
	screen      tcell.Screen
	title       string
	refreshHz   int
	fullscreen  bool
	windowScale float64
	logger      *log.Logger

	events chan tcell.Event
	quit   chan struct{}
	closed bool
}

// New initializes the terminal and starts reading input.
// Input is read on a private goroutine and handed to the loop through a
// buffered channel; all drawing happens on the caller's goroutine.
func New(opts Options) (*Display, error) {
	screen := opts.Screen
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("console: cannot open terminal: %w", err)
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("console: cannot initialize terminal: %w", err)
	}
	screen.HideCursor()

	if opts.WindowScale <= 0 || opts.WindowScale > 1 {
		opts.WindowScale = DefaultWindowScale
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	d := &Display{
		screen:      screen,
		title:       opts.Title,
		refreshHz:   opts.RefreshHz,
		fullscreen:  opts.Fullscreen,
		windowScale: opts.WindowScale,
		logger:      opts.Logger,
		events:      make(chan tcell.Event, eventBuffer),
		quit:        make(chan struct{}),
	}
	go d.pump()

	return d, nil
}

// pump forwards terminal events until the screen is finalized.
func (d *Display) pump() {
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case d.events <- ev:
		case <-d.quit:
			return
		}
	}
}

// RefreshRateHz returns the configured terminal rate.
func (d *Display) RefreshRateHz() int {
	return d.refreshHz
}

// ToggleFullScreen switches between the bordered viewport and the full terminal.
func (d *Display) ToggleFullScreen() error {
	if d.closed {
		return errors.New("console: display closed")
	}
	d.fullscreen = !d.fullscreen
	d.screen.Sync()
	return nil
}

// IsFullScreen reports whether the full terminal is used.
func (d *Display) IsFullScreen() bool {
	return d.fullscreen
}

// Viewport returns the drawable area for the current mode.
func (d *Display) Viewport() core.Rect {
	w, h := d.screen.Size()
	full := core.NewRect(0, 0, w, h)
	if d.fullscreen {
		return full
	}
	vw := int(math.Round(float64(w) * d.windowScale))
	vh := int(math.Round(float64(h) * d.windowScale))
	return core.Centered(full, vw, vh)
}

// content returns the viewport minus its border in windowed mode.
func (d *Display) content() core.Rect {
	vp := d.Viewport()
	if d.fullscreen {
		return vp
	}
	return vp.Inset(1)
}

// Clear blanks the terminal and draws the window frame when windowed.
func (d *Display) Clear() error {
	if d.closed {
		return errors.New("console: display closed")
	}
	d.screen.Clear()
	if !d.fullscreen {
		d.drawFrame(d.Viewport())
	}
	return nil
}

func (d *Display) drawFrame(r core.Rect) {
	if r.W < 2 || r.H < 2 {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	right, bottom := r.Right()-1, r.Bottom()-1

	for x := r.X + 1; x < right; x++ {
		d.screen.SetContent(x, r.Y, tcell.RuneHLine, nil, style)
		d.screen.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := r.Y + 1; y < bottom; y++ {
		d.screen.SetContent(r.X, y, tcell.RuneVLine, nil, style)
		d.screen.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	d.screen.SetContent(r.X, r.Y, tcell.RuneULCorner, nil, style)
	d.screen.SetContent(right, r.Y, tcell.RuneURCorner, nil, style)
	d.screen.SetContent(r.X, bottom, tcell.RuneLLCorner, nil, style)
	d.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)

	if d.title != "" && r.W > 6 {
		title := " " + d.title + " "
		x := r.X + 2
		for _, ch := range title {
			if x >= right-1 {
				break
			}
			d.screen.SetContent(x, r.Y, ch, nil, style.Bold(true))
			x++
		}
	}
}

// Present flushes the frame to the terminal.
func (d *Display) Present() error {
	if d.closed {
		return errors.New("console: display closed")
	}
	d.screen.Show()
	return nil
}

// RenderTexture blits a console texture, clipped to the viewport.
func (d *Display) RenderTexture(tex core.Texture) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("console: %w", core.ErrForeignTexture)
	}
	area := d.content()
	for y := range t.h {
		for x := range t.w {
			sx, sy := area.X+t.x+x, area.Y+t.y+y
			if !area.Contains(sx, sy) {
				continue
			}
			c := t.cells[y*t.w+x]
			d.screen.SetContent(sx, sy, c.r, nil, c.style)
		}
	}
	return nil
}

// RenderText draws text anchored at pos inside the viewport. Larger fonts are
// drawn bold with wider letter spacing.
func (d *Display) RenderText(font core.Font, text string, pos core.Vec2, align core.Alignment, color core.Color) error {
	f, ok := font.(*Font)
	if !ok {
		return fmt.Errorf("console: font %T belongs to another backend", font)
	}

	scale := f.Scale()
	n := utf8.RuneCountInString(text)
	w := n*scale - (scale - 1)
	if n == 0 {
		w = 0
	}

	area := d.content()
	box := core.Place(area, pos, w, 1, align)

	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(color.R), int32(color.G), int32(color.B)))
	if scale > 1 {
		style = style.Bold(true)
	}

	x := box.X
	for _, ch := range text {
		if area.Contains(x, box.Y) {
			d.screen.SetContent(x, box.Y, ch, nil, style)
		}
		x += scale
	}
	return nil
}

// Close stops input and restores the terminal.
func (d *Display) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	close(d.quit)
	d.screen.Fini()
	return nil
}
