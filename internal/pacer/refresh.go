package pacer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRefreshRate is returned when a display reports a refresh rate of zero or less.
var ErrInvalidRefreshRate = errors.New("pacer: invalid refresh rate")

// DefaultRefreshHz is used when a clamp policy replaces an invalid rate.
const DefaultRefreshHz = 60

// RefreshPolicy decides what happens to an invalid refresh rate.
type RefreshPolicy string

const (
	PolicyClamp RefreshPolicy = "clamp" // Substitute the fallback rate
	PolicyFail  RefreshPolicy = "fail"  // Report ErrInvalidRefreshRate
)

// ParseRefreshPolicy converts a config string to a RefreshPolicy.
func ParseRefreshPolicy(s string) (RefreshPolicy, error) {
	switch RefreshPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyClamp:
		return PolicyClamp, nil
	case PolicyFail:
		return PolicyFail, nil
	default:
		return "", fmt.Errorf("pacer: unknown refresh policy %q", s)
	}
}

// FrameInterval returns 1000/hz milliseconds, rejecting non-positive rates.
func FrameInterval(hz int) (float64, error) {
	if hz <= 0 {
		return 0, fmt.Errorf("%w: %d Hz", ErrInvalidRefreshRate, hz)
	}
	return 1000.0 / float64(hz), nil
}

// Resolution is the outcome of validating a refresh rate.
type Resolution struct {
	Hz       int     // Rate actually used
	Interval float64 // Frame interval in milliseconds
	Clamped  bool    // True when the reported rate was replaced
	Reported int     // Rate reported by the display
}

// ResolveInterval validates a reported refresh rate under the given policy.
// With PolicyClamp an invalid rate is replaced by fallbackHz (or DefaultRefreshHz when
// the fallback is itself invalid).
func ResolveInterval(reportedHz int, policy RefreshPolicy, fallbackHz int) (Resolution, error) {
	res := Resolution{Hz: reportedHz, Reported: reportedHz}

	interval, err := FrameInterval(reportedHz)
	if err == nil {
		res.Interval = interval
		return res, nil
	}

	if policy == PolicyFail {
		return res, err
	}

	if fallbackHz <= 0 {
		fallbackHz = DefaultRefreshHz
	}
	res.Hz = fallbackHz
	res.Clamped = true
	res.Interval = 1000.0 / float64(fallbackHz)
	return res, nil
}
