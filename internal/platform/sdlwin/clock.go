package sdlwin

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Clock reads SDL's high resolution performance counter.
type Clock struct {
	origin uint64
	freq   uint64
}

// NewClock starts a clock at zero.
func NewClock() *Clock {
	return &Clock{origin: sdl.GetPerformanceCounter(), freq: sdl.GetPerformanceFrequency()}
}

// NowMs returns milliseconds since NewClock.
func (c *Clock) NowMs() float64 {
	return counterToMs(sdl.GetPerformanceCounter()-c.origin, c.freq)
}

func counterToMs(ticks, freq uint64) float64 {
	if freq == 0 {
		return 0
	}
	return float64(ticks) * 1000 / float64(freq)
}

// Sleeper blocks with SDL_Delay, which has millisecond granularity.
type Sleeper struct{}

// Sleep delays for ms rounded down to whole milliseconds.
func (Sleeper) Sleep(ms float64) {
	if ms < 1 {
		return
	}
	sdl.Delay(uint32(ms))
}
