// Package pacer implements the fixed-timestep accumulator and the frame-rate cap
// that drive the render loop.
//
// Simulation advances in quantized steps of LoopState.FixedStep milliseconds no matter
// how long each rendered frame takes. Leftover time is carried to the next frame and
// exposed as an interpolation fraction for the renderer.
package pacer

import (
	"errors"
	"fmt"
)

// ErrInvalidStep is returned when a fixed step or frame interval is not positive.
var ErrInvalidStep = errors.New("pacer: step must be positive")

// LoopState is the mutable timing record owned by a single loop driver.
type LoopState struct {
	CurrentTime         float64 // Last sampled clock value (ms)
	Accumulator         float64 // Unconsumed simulated time (ms)
	Running             bool    // Cleared when termination is requested
	FixedStep           float64 // Simulation quantum (ms), > 0
	TargetFrameInterval float64 // Real-time budget per iteration (ms), > 0

	// MaxFrameTime bounds a single frameTime sample before it is accumulated.
	// Zero disables the bound.
	MaxFrameTime float64
}

// NewLoopState creates the state for a loop starting at nowMs.
func NewLoopState(nowMs, fixedStep, targetFrameInterval float64) (*LoopState, error) {
	if fixedStep <= 0 {
		return nil, fmt.Errorf("%w: fixed step %v", ErrInvalidStep, fixedStep)
	}
	if targetFrameInterval <= 0 {
		return nil, fmt.Errorf("%w: frame interval %v", ErrInvalidStep, targetFrameInterval)
	}
	return &LoopState{
		CurrentTime:         nowMs,
		Accumulator:         0,
		Running:             true,
		FixedStep:           fixedStep,
		TargetFrameInterval: targetFrameInterval,
	}, nil
}

// Tick samples nowMs, accumulates the elapsed time and drains it in fixed steps,
// calling step once per consumed step. It returns the number of steps consumed and
// the interpolation fraction left over.
//
// A clock reading older than CurrentTime is treated as zero elapsed time.
func Tick(state *LoopState, nowMs float64, step func()) (steps int, alpha float64) {
	frameTime := nowMs - state.CurrentTime
	state.CurrentTime = nowMs
	if frameTime < 0 {
		frameTime = 0
	}
	if state.MaxFrameTime > 0 && frameTime > state.MaxFrameTime {
		frameTime = state.MaxFrameTime
	}

	state.Accumulator += frameTime
	for state.Accumulator >= state.FixedStep {
		if step != nil {
			step()
		}
		state.Accumulator -= state.FixedStep
		steps++
	}

	return steps, Alpha(state)
}

// Alpha returns Accumulator / FixedStep, the blend factor between the previous and
// current simulation state.
func Alpha(state *LoopState) float64 {
	return state.Accumulator / state.FixedStep
}

// CapFrameRate returns how long to sleep so that an iteration spanning
// [iterationStartMs, iterationEndMs] lasts roughly targetFrameIntervalMs.
// Overrunning iterations get zero; the pacer never tries to catch up.
func CapFrameRate(iterationStartMs, iterationEndMs, targetFrameIntervalMs float64) float64 {
	elapsed := iterationEndMs - iterationStartMs
	if elapsed >= targetFrameIntervalMs {
		return 0
	}
	return targetFrameIntervalMs - elapsed
}

// Overran reports whether an iteration exceeded its budget.
func Overran(iterationStartMs, iterationEndMs, targetFrameIntervalMs float64) bool {
	return iterationEndMs-iterationStartMs > targetFrameIntervalMs
}
