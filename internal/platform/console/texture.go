package console

import (
	"fmt"
	"image"
	_ "image/gif" // Register decoders
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tickengine/internal/core"
)

// maxTextureCols bounds the default width of an image texture.
const maxTextureCols = 32

type texCell struct {
	r     rune
	style tcell.Style
}

// Texture is an image rasterized to half-block cells. Each cell shows two
// vertically stacked pixels: the foreground paints the top one, the
// background the bottom one.
type Texture struct {
	x, y  int
	w, h  int
	cells []texCell
}

// LoadTexture decodes an image file and scales it to w×h cells placed at (x, y)
// in the viewport. Zero w picks the image width up to 32 columns; zero h keeps
// the aspect ratio.
func LoadTexture(path string, x, y, w, h int) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("console: cannot open texture %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("console: cannot decode texture %s: %w", path, err)
	}
	return NewTexture(img, x, y, w, h), nil
}

// NewTexture rasterizes img with nearest-neighbour sampling.
func NewTexture(img image.Image, x, y, w, h int) *Texture {
	b := img.Bounds()
	if w <= 0 {
		w = core.Min(b.Dx(), maxTextureCols)
	}
	if h <= 0 {
		// Two pixel rows per cell
		h = core.Max(1, w*b.Dy()/core.Max(1, b.Dx())/2)
	}

	t := &Texture{x: x, y: y, w: w, h: h, cells: make([]texCell, w*h)}
	for cy := range h {
		for cx := range w {
			sx := b.Min.X + cx*b.Dx()/w
			top := b.Min.Y + (2*cy)*b.Dy()/(2*h)
			bottom := b.Min.Y + (2*cy+1)*b.Dy()/(2*h)

			fg := toColor(img, sx, top)
			bg := toColor(img, sx, bottom)
			t.cells[cy*w+cx] = texCell{
				r:     '▀',
				style: tcell.StyleDefault.Foreground(fg).Background(bg),
			}
		}
	}
	return t
}

func toColor(img image.Image, x, y int) tcell.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

// Bounds returns the texture area in viewport cells.
func (t *Texture) Bounds() core.Rect {
	return core.NewRect(t.x, t.y, t.w, t.h)
}
