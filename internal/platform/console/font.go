package console

import (
	"fmt"
)

// Font maps a pixel size onto terminal cells. The base size occupies one cell
// per glyph; larger sizes spread glyphs over more cells.
type Font struct {
	base int
	size int
}

// NewFont creates a font whose base (windowed) size is base, currently at size.
func NewFont(base, size int) *Font {
	if base <= 0 {
		base = 1
	}
	return &Font{base: base, size: size}
}

// Size returns the current pixel size.
func (f *Font) Size() int {
	return f.size
}

// Resize changes the pixel size.
func (f *Font) Resize(size int) error {
	if size <= 0 {
		return fmt.Errorf("console: invalid font size %d", size)
	}
	f.size = size
	return nil
}

// Scale returns the cells used per glyph: ceil(size/base), at least 1.
func (f *Font) Scale() int {
	s := (f.size + f.base - 1) / f.base
	if s < 1 {
		return 1
	}
	return s
}
