// Package core defines the collaborator contracts the render loop depends on:
// displays, fonts, textures, event sources and music. It also carries the small
// value types shared by every backend. It imports no multimedia library so the
// loop and its tests stay free of cgo and terminals.
package core

import (
	"fmt"
	"strings"
)

// Rect is an axis-aligned rectangle in backend units (pixels or terminal cells).
type Rect struct {
	X, Y int // Top-left corner
	W, H int // Width and height
}

// NewRect creates a rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rectangle by n on every side.
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Vec2 is a position relative to the drawable area: (0,0) is the top-left corner
// and (1,1) the bottom-right one.
type Vec2 struct {
	X, Y float64
}

// Alignment selects which point of a text box is anchored at its position.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// String returns the config name of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseAlignment converts a config string to an Alignment.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft, nil
	case "", "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignLeft, fmt.Errorf("core: unknown alignment %q", s)
	}
}

// Place computes where a w×h box lands inside area when anchored at the relative
// position pos. Horizontal anchoring follows align; the box is always centered
// vertically on pos.Y.
func Place(area Rect, pos Vec2, w, h int, align Alignment) Rect {
	ax := area.X + int(pos.X*float64(area.W))
	ay := area.Y + int(pos.Y*float64(area.H))

	x := ax
	switch align {
	case AlignCenter:
		x = ax - w/2
	case AlignRight:
		x = ax - w
	}
	return Rect{X: x, Y: ay - h/2, W: w, H: h}
}

// Centered returns a w×h rectangle centered inside area.
func Centered(area Rect, w, h int) Rect {
	return Rect{
		X: area.X + (area.W-w)/2,
		Y: area.Y + (area.H-h)/2,
		W: w,
		H: h,
	}
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
