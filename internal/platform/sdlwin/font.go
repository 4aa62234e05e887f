package sdlwin

import (
	"fmt"

	"github.com/veandco/go-sdl2/ttf"
)

// Font is a TTF font opened at a point size. SDL_ttf cannot rescale an open
// font, so Resize reopens the file.
type Font struct {
	path string
	size int
	font *ttf.Font
}

// OpenFont loads the font file at size points.
func OpenFont(path string, size int) (*Font, error) {
	f, err := ttf.OpenFont(path, size)
	if err != nil {
		return nil, fmt.Errorf("sdlwin: open font %s: %w", path, err)
	}
	return &Font{path: path, size: size, font: f}, nil
}

// Size returns the point size.
func (f *Font) Size() int {
	return f.size
}

// Resize reopens the font at a new point size. On failure the old size stays
// usable.
func (f *Font) Resize(size int) error {
	if size == f.size {
		return nil
	}
	next, err := ttf.OpenFont(f.path, size)
	if err != nil {
		return fmt.Errorf("sdlwin: reopen font %s at %d: %w", f.path, size, err)
	}
	f.font.Close()
	f.font = next
	f.size = size
	return nil
}

// Close releases the font.
func (f *Font) Close() {
	if f.font != nil {
		f.font.Close()
		f.font = nil
	}
}
