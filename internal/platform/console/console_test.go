package console

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tickengine/internal/core"
)

func newTestDisplay(t *testing.T, fullscreen bool) (*Display, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	d, err := New(Options{Screen: screen, Title: "test", RefreshHz: 30, Fullscreen: fullscreen})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	screen.SetSize(40, 12)
	t.Cleanup(func() { _ = d.Close() })
	return d, screen
}

func runeAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func TestRefreshRateIsConfigured(t *testing.T) {
	d, _ := newTestDisplay(t, true)
	if got := d.RefreshRateHz(); got != 30 {
		t.Errorf("RefreshRateHz() = %d, expected 30", got)
	}
}

func TestViewport(t *testing.T) {
	d, _ := newTestDisplay(t, true)

	if got := d.Viewport(); got != core.NewRect(0, 0, 40, 12) {
		t.Errorf("fullscreen Viewport() = %+v, expected whole terminal", got)
	}

	if err := d.ToggleFullScreen(); err != nil {
		t.Fatalf("ToggleFullScreen() error = %v", err)
	}
	if d.IsFullScreen() {
		t.Fatal("IsFullScreen() = true after toggle")
	}
	// round(40*0.66)=26, round(12*0.66)=8
	if got := d.Viewport(); got != core.NewRect(7, 2, 26, 8) {
		t.Errorf("windowed Viewport() = %+v, expected {7 2 26 8}", got)
	}
}

func TestClearDrawsFrameWhenWindowed(t *testing.T) {
	d, screen := newTestDisplay(t, false)
	if err := d.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	vp := d.Viewport()
	if got := runeAt(screen, vp.X, vp.Y); got != tcell.RuneULCorner {
		t.Errorf("top-left = %q, expected corner", got)
	}
	if got := runeAt(screen, vp.Right()-1, vp.Bottom()-1); got != tcell.RuneLRCorner {
		t.Errorf("bottom-right = %q, expected corner", got)
	}
	if got := runeAt(screen, vp.X+3, vp.Y); got != 't' {
		t.Errorf("title start = %q, expected 't'", got)
	}
}

func TestRenderTextCentered(t *testing.T) {
	d, screen := newTestDisplay(t, true)
	font := NewFont(25, 25)

	if err := d.Clear(); err != nil {
		t.Fatal(err)
	}
	err := d.RenderText(font, "hello", core.Vec2{X: 0.5, Y: 0.5}, core.AlignCenter, core.ColorWhite)
	if err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}

	for i, want := range "hello" {
		if got := runeAt(screen, 18+i, 6); got != want {
			t.Errorf("cell (%d,6) = %q, expected %q", 18+i, got, want)
		}
	}
}

func TestRenderTextScaledFont(t *testing.T) {
	d, screen := newTestDisplay(t, true)
	font := NewFont(25, 37)

	if err := d.RenderText(font, "ab", core.Vec2{}, core.AlignLeft, core.ColorWhite); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}

	if got := runeAt(screen, 0, 0); got != 'a' {
		t.Errorf("cell (0,0) = %q, expected 'a'", got)
	}
	if got := runeAt(screen, 2, 0); got != 'b' {
		t.Errorf("cell (2,0) = %q, expected 'b'", got)
	}
	_, _, style, _ := screen.GetContent(0, 0)
	if _, _, attrs := style.Decompose(); attrs&tcell.AttrBold == 0 {
		t.Error("scaled text is not bold")
	}
}

func TestRenderTextRejectsForeignFont(t *testing.T) {
	d, _ := newTestDisplay(t, true)
	if err := d.RenderText(otherFont{}, "x", core.Vec2{}, core.AlignLeft, core.ColorWhite); err == nil {
		t.Error("RenderText() with foreign font returned nil error")
	}
}

type otherFont struct{}

func (otherFont) Size() int        { return 1 }
func (otherFont) Resize(int) error { return nil }

type otherTexture struct{}

func (otherTexture) Bounds() core.Rect { return core.Rect{} }

func TestRenderTexture(t *testing.T) {
	d, screen := newTestDisplay(t, true)

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	for y := range 4 {
		for x := range 4 {
			if y < 2 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, blue)
			}
		}
	}

	tex := NewTexture(img, 3, 2, 2, 1)
	if got := tex.Bounds(); got != core.NewRect(3, 2, 2, 1) {
		t.Errorf("Bounds() = %+v, expected {3 2 2 1}", got)
	}
	if err := d.RenderTexture(tex); err != nil {
		t.Fatalf("RenderTexture() error = %v", err)
	}

	r, _, style, _ := screen.GetContent(3, 2)
	if r != '▀' {
		t.Errorf("texture cell = %q, expected half block", r)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("foreground = %v, expected red", fg)
	}
	if bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("background = %v, expected blue", bg)
	}

	if err := d.RenderTexture(otherTexture{}); !errors.Is(err, core.ErrForeignTexture) {
		t.Errorf("RenderTexture(foreign) error = %v, expected ErrForeignTexture", err)
	}
}

func TestNewTextureDefaultSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	tex := NewTexture(img, 0, 0, 0, 0)
	b := tex.Bounds()
	if b.W != maxTextureCols {
		t.Errorf("width = %d, expected %d", b.W, maxTextureCols)
	}
	if b.H != 8 {
		t.Errorf("height = %d, expected 8", b.H)
	}
}

func TestLoadTextureMissingFile(t *testing.T) {
	if _, err := LoadTexture(t.TempDir()+"/missing.png", 0, 0, 0, 0); err == nil {
		t.Error("LoadTexture() on missing file returned nil error")
	}
}

func TestFontScale(t *testing.T) {
	tests := []struct {
		base, size int
		expected   int
	}{
		{25, 25, 1},
		{25, 37, 2},
		{25, 50, 2},
		{25, 51, 3},
		{25, 10, 1},
	}
	for _, tt := range tests {
		f := NewFont(tt.base, tt.size)
		if got := f.Scale(); got != tt.expected {
			t.Errorf("NewFont(%d, %d).Scale() = %d, expected %d", tt.base, tt.size, got, tt.expected)
		}
	}

	f := NewFont(25, 25)
	if err := f.Resize(0); err == nil {
		t.Error("Resize(0) returned nil error")
	}
	if err := f.Resize(37); err != nil || f.Size() != 37 {
		t.Errorf("Resize(37) = %v, size %d", err, f.Size())
	}
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name     string
		ev       *tcell.EventKey
		expected core.Event
		ok       bool
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModNone), core.KeyUpEvent("f"), true},
		{"ctrl+c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), core.QuitEvent(), true},
		{"ctrl+q", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl), core.QuitEvent(), true},
		{"f11", tcell.NewEventKey(tcell.KeyF11, 0, tcell.ModNone), core.KeyUpEvent("f11"), true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), core.KeyUpEvent("enter"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translateKey(tt.ev)
			if ok != tt.ok {
				t.Fatalf("translateKey() ok = %v, expected %v", ok, tt.ok)
			}
			if got != tt.expected {
				t.Errorf("translateKey() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

// drainUntil collects events until one of kind arrives or the deadline passes.
func drainUntil(d *Display, kind core.EventKind) []core.Event {
	var out []core.Event
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for ev := range d.Events() {
			out = append(out, ev)
			if ev.Kind == kind {
				return out
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return out
}

func TestEventsDrainPostedKeys(t *testing.T) {
	d, screen := newTestDisplay(t, true)

	if err := screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModNone)); err != nil {
		t.Fatal(err)
	}
	if err := screen.PostEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)); err != nil {
		t.Fatal(err)
	}

	events := drainUntil(d, core.EventQuit)
	var sawKey, sawQuit bool
	for _, ev := range events {
		switch {
		case ev.Kind == core.EventKeyUp && ev.Key == "f":
			sawKey = true
		case ev.Kind == core.EventQuit:
			sawQuit = true
			if !sawKey {
				t.Error("quit drained before the earlier key")
			}
		}
	}
	if !sawKey || !sawQuit {
		t.Errorf("drained %+v, expected key f then quit", events)
	}
}

func TestInterruptRequestsQuit(t *testing.T) {
	d, _ := newTestDisplay(t, true)
	d.Interrupt()

	events := drainUntil(d, core.EventQuit)
	if len(events) == 0 || events[len(events)-1].Kind != core.EventQuit {
		t.Errorf("drained %+v, expected quit", events)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	d, _ := newTestDisplay(t, true)
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := d.Present(); err == nil {
		t.Error("Present() after Close returned nil error")
	}
}
