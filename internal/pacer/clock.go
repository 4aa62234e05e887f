package pacer

import "time"

// Clock is a monotonic millisecond time source.
// Successive calls must never return a smaller value.
type Clock interface {
	NowMs() float64
}

// Sleeper suspends the calling goroutine for the given number of milliseconds.
// Implementations block; the sleep is not cancellable.
type Sleeper interface {
	Sleep(ms float64)
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() float64

// NowMs calls f.
func (f ClockFunc) NowMs() float64 { return f() }

// SleeperFunc adapts a plain function to the Sleeper interface.
type SleeperFunc func(ms float64)

// Sleep calls f.
func (f SleeperFunc) Sleep(ms float64) { f(ms) }

// SystemClock reports milliseconds elapsed since it was created.
// It relies on the monotonic reading carried by time.Time.
type SystemClock struct {
	origin time.Time
}

// NewSystemClock creates a clock anchored at the current instant.
func NewSystemClock() *SystemClock {
	return &SystemClock{origin: time.Now()}
}

// NowMs returns fractional milliseconds since the clock was created.
func (c *SystemClock) NowMs() float64 {
	return float64(time.Since(c.origin)) / float64(time.Millisecond)
}

// SystemSleeper sleeps with time.Sleep.
type SystemSleeper struct{}

// Sleep blocks for ms milliseconds. Non-positive durations return immediately.
func (SystemSleeper) Sleep(ms float64) {
	if ms <= 0 {
		return
	}
	time.Sleep(Duration(ms))
}

// Duration converts fractional milliseconds to a time.Duration.
func Duration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// Millis converts a time.Duration to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
