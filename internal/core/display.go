package core

import "errors"

// ErrForeignTexture is returned when a display is handed a texture created by a
// different backend.
var ErrForeignTexture = errors.New("core: texture belongs to another backend")

// Display is the window (or terminal) the loop renders into.
type Display interface {
	// RefreshRateHz returns the rate reported by the output device.
	// It may be zero or negative on misbehaving drivers; callers validate it.
	RefreshRateHz() int

	// ToggleFullScreen switches between fullscreen and windowed presentation.
	ToggleFullScreen() error

	// IsFullScreen reports the current presentation mode.
	IsFullScreen() bool

	// Clear starts a new frame.
	Clear() error

	// Present shows the frame built since Clear.
	Present() error

	// RenderTexture draws a texture at its own bounds.
	RenderTexture(tex Texture) error

	// RenderText draws text anchored at a relative position.
	RenderText(font Font, text string, pos Vec2, align Alignment, color Color) error
}

// Font is a rasterizer configured at a pixel size.
type Font interface {
	// Size returns the current size in pixels.
	Size() int

	// Resize re-rasterizes the font at a new pixel size.
	Resize(sizePx int) error
}

// Texture is an opaque handle to something drawable. Its lifetime is owned by
// the backend that created it; the loop only iterates handles.
type Texture interface {
	Bounds() Rect
}

// Music is a background track.
type Music interface {
	Play() error
	Close() error
}

// FontSizes maps presentation modes to font sizes.
type FontSizes struct {
	Windowed   int
	Fullscreen int
}

// NewFontSizes derives both sizes from the windowed base size and the
// fullscreen scale factor.
func NewFontSizes(base int, fullscreenScale float64) FontSizes {
	if fullscreenScale <= 0 {
		fullscreenScale = 1
	}
	return FontSizes{
		Windowed:   base,
		Fullscreen: int(float64(base) * fullscreenScale),
	}
}

// For returns the size to use in the given presentation mode.
func (s FontSizes) For(fullscreen bool) int {
	if fullscreen {
		return s.Fullscreen
	}
	return s.Windowed
}
