package sdlwin

import (
	"fmt"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vovakirdan/tickengine/internal/core"
)

// Texture is an image uploaded to the renderer.
type Texture struct {
	path string
	tex  *sdl.Texture
	rect core.Rect
}

// LoadTexture loads an image into a texture drawn at (x, y). Zero w or h uses
// the image's own size.
func (w *Window) LoadTexture(path string, x, y, width, height int) (*Texture, error) {
	tex, err := img.LoadTexture(w.renderer, path)
	if err != nil {
		return nil, fmt.Errorf("sdlwin: load texture %s: %w", path, err)
	}

	_, _, tw, th, err := tex.Query()
	if err != nil {
		_ = tex.Destroy()
		return nil, fmt.Errorf("sdlwin: query texture %s: %w", path, err)
	}
	if width <= 0 {
		width = int(tw)
	}
	if height <= 0 {
		height = int(th)
	}

	return &Texture{path: path, tex: tex, rect: core.NewRect(x, y, width, height)}, nil
}

// Bounds returns the destination rectangle in pixels.
func (t *Texture) Bounds() core.Rect {
	return t.rect
}

// Destroy releases the GPU texture.
func (t *Texture) Destroy() {
	if t.tex != nil {
		_ = t.tex.Destroy()
		t.tex = nil
	}
}
