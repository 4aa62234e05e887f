package core

import "fmt"

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Predefined colors.
var (
	ColorWhite = Color{255, 255, 255}
	ColorBlack = Color{0, 0, 0}
)

// ColorFromSlice builds a Color from a config triple such as [255, 255, 255].
func ColorFromSlice(v []int) (Color, error) {
	if len(v) != 3 {
		return Color{}, fmt.Errorf("core: color needs 3 components, got %d", len(v))
	}
	for _, c := range v {
		if c < 0 || c > 255 {
			return Color{}, fmt.Errorf("core: color component %d out of range", c)
		}
	}
	return Color{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2])}, nil
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
