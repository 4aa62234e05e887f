package engine

import (
	"errors"
	"iter"

	"github.com/vovakirdan/tickengine/internal/core"
)

// fakeClock is advanced explicitly by the fakes below.
type fakeClock struct {
	now float64
}

func (c *fakeClock) NowMs() float64 { return c.now }

// fakeSleeper advances the clock by the requested amount.
type fakeSleeper struct {
	clock  *fakeClock
	sleeps []float64
}

func (s *fakeSleeper) Sleep(ms float64) {
	s.sleeps = append(s.sleeps, ms)
	s.clock.now += ms
}

// fakeDisplay records calls; Present costs workMs of clock time.
type fakeDisplay struct {
	clock      *fakeClock
	workMs     float64
	refreshHz  int
	refreshFn  func(fullscreen bool) int
	fullscreen bool

	clears   int
	presents int
	textures int
	texts    []string
	toggles  int

	presentErr error
	toggleErr  error
}

func (d *fakeDisplay) RefreshRateHz() int {
	if d.refreshFn != nil {
		return d.refreshFn(d.fullscreen)
	}
	return d.refreshHz
}

func (d *fakeDisplay) ToggleFullScreen() error {
	if d.toggleErr != nil {
		return d.toggleErr
	}
	d.fullscreen = !d.fullscreen
	d.toggles++
	return nil
}

func (d *fakeDisplay) IsFullScreen() bool { return d.fullscreen }

func (d *fakeDisplay) Clear() error {
	d.clears++
	return nil
}

func (d *fakeDisplay) Present() error {
	if d.presentErr != nil {
		return d.presentErr
	}
	d.presents++
	d.clock.now += d.workMs
	return nil
}

func (d *fakeDisplay) RenderTexture(tex core.Texture) error {
	if _, ok := tex.(fakeTexture); !ok {
		return core.ErrForeignTexture
	}
	d.textures++
	return nil
}

func (d *fakeDisplay) RenderText(_ core.Font, text string, _ core.Vec2, _ core.Alignment, _ core.Color) error {
	d.texts = append(d.texts, text)
	return nil
}

type fakeTexture struct{}

func (fakeTexture) Bounds() core.Rect { return core.NewRect(0, 0, 1, 1) }

type otherTexture struct{}

func (otherTexture) Bounds() core.Rect { return core.Rect{} }

type fakeFont struct {
	size    int
	resizes []int
	err     error
}

func (f *fakeFont) Size() int { return f.size }

func (f *fakeFont) Resize(size int) error {
	if f.err != nil {
		return f.err
	}
	f.size = size
	f.resizes = append(f.resizes, size)
	return nil
}

// scriptedEvents hands out a fixed batch of events on a given drain call.
type scriptedEvents struct {
	drains int
	at     map[int][]core.Event
}

func (s *scriptedEvents) Events() iter.Seq[core.Event] {
	n := s.drains
	s.drains++
	return func(yield func(core.Event) bool) {
		for _, ev := range s.at[n] {
			if !yield(ev) {
				return
			}
		}
	}
}

var errPresent = errors.New("present failed")
