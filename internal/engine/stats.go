package engine

import (
	"time"
)

// EndReason records why a loop stopped.
type EndReason string

const (
	EndQuit        EndReason = "quit"         // Quit event drained
	EndCancelled   EndReason = "cancelled"    // Context cancelled
	EndDeadline    EndReason = "deadline"     // MaxDurationMs elapsed
	EndRefreshRate EndReason = "refresh-rate" // Invalid refresh rate under the fail policy
	EndError       EndReason = "error"        // Display failure
)

// Stats summarizes one run of the loop.
type Stats struct {
	StartedAt   time.Time
	Elapsed     time.Duration
	Frames      int // Rendered frames
	Steps       int // Fixed steps consumed
	Overruns    int // Iterations that exceeded their budget
	Toggles     int // Fullscreen toggles
	FixedStepMs float64
	IntervalMs  float64 // Frame interval in effect when the loop stopped
	RefreshHz   int     // Rate the interval was derived from
	EndReason   EndReason
}

// FPS returns the average rendered frame rate.
func (s Stats) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Elapsed.Seconds()
}

// StepsPerSecond returns the average simulation rate.
func (s Stats) StepsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Steps) / s.Elapsed.Seconds()
}
