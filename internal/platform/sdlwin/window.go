// Package sdlwin is the desktop backend: an SDL2 window with an accelerated
// renderer, TTF text and image textures.
package sdlwin

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"

	"github.com/vovakirdan/tickengine/internal/core"
)

func init() {
	// SDL video calls must stay on the main thread.
	runtime.LockOSThread()
}

// Options configures the window.
type Options struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	// Images enables SDL_image; it is only required when textures are loaded.
	Images bool
	Logger *log.Logger
}

// Window is an SDL-backed core.Display and core.EventSource.
type Window struct {
	window     *sdl.Window
	renderer   *sdl.Renderer
	fullscreen bool
	images     bool
	logger     *log.Logger
	closed     bool
}

// Open initializes SDL video, SDL_ttf and optionally SDL_image, then creates
// the window and its renderer. Every failure here is fatal to the caller.
func Open(opts Options) (w *Window, err error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdlwin: init video: %w", err)
	}
	defer func() {
		if err != nil {
			sdl.Quit()
		}
	}()

	if err := ttf.Init(); err != nil {
		return nil, fmt.Errorf("sdlwin: init ttf: %w", err)
	}
	defer func() {
		if err != nil {
			ttf.Quit()
		}
	}()

	if opts.Images {
		if err := img.Init(img.INIT_PNG | img.INIT_JPG); err != nil {
			return nil, fmt.Errorf("sdlwin: init image: %w", err)
		}
		defer func() {
			if err != nil {
				img.Quit()
			}
		}()
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE)
	if opts.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "linear")

	window, err := sdl.CreateWindow(opts.Title,
		int32(sdl.WINDOWPOS_CENTERED),
		int32(sdl.WINDOWPOS_CENTERED),
		int32(opts.Width), int32(opts.Height), flags)
	if err != nil {
		return nil, fmt.Errorf("sdlwin: create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		_ = window.Destroy()
		return nil, fmt.Errorf("sdlwin: create renderer: %w", err)
	}

	return &Window{
		window:     window,
		renderer:   renderer,
		fullscreen: opts.Fullscreen,
		images:     opts.Images,
		logger:     opts.Logger,
	}, nil
}

// RefreshRateHz returns the refresh rate of the display currently holding the
// window. Zero means SDL could not report it.
func (w *Window) RefreshRateHz() int {
	idx, err := w.window.GetDisplayIndex()
	if err != nil {
		w.logger.Debug("display index unavailable", "err", err)
		return 0
	}
	mode, err := sdl.GetCurrentDisplayMode(idx)
	if err != nil {
		w.logger.Debug("display mode unavailable", "display", idx, "err", err)
		return 0
	}
	return int(mode.RefreshRate)
}

// ToggleFullScreen switches between desktop fullscreen and windowed mode.
func (w *Window) ToggleFullScreen() error {
	var flags uint32
	if !w.fullscreen {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.window.SetFullscreen(flags); err != nil {
		return fmt.Errorf("sdlwin: set fullscreen: %w", err)
	}
	w.fullscreen = !w.fullscreen
	return nil
}

// IsFullScreen reports the current mode.
func (w *Window) IsFullScreen() bool {
	return w.fullscreen
}

// Clear fills the frame with black.
func (w *Window) Clear() error {
	if w.closed {
		return errors.New("sdlwin: window closed")
	}
	if err := w.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return fmt.Errorf("sdlwin: %w", err)
	}
	if err := w.renderer.Clear(); err != nil {
		return fmt.Errorf("sdlwin: clear: %w", err)
	}
	return nil
}

// Present shows the frame.
func (w *Window) Present() error {
	if w.closed {
		return errors.New("sdlwin: window closed")
	}
	w.renderer.Present()
	return nil
}

// outputArea returns the drawable area in pixels.
func (w *Window) outputArea() (core.Rect, error) {
	ow, oh, err := w.renderer.GetOutputSize()
	if err != nil {
		return core.Rect{}, fmt.Errorf("sdlwin: output size: %w", err)
	}
	return core.NewRect(0, 0, int(ow), int(oh)), nil
}

// RenderTexture copies a texture to its configured rectangle.
func (w *Window) RenderTexture(tex core.Texture) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("sdlwin: %w", core.ErrForeignTexture)
	}
	dst := toSDLRect(t.rect)
	if err := w.renderer.Copy(t.tex, nil, &dst); err != nil {
		return fmt.Errorf("sdlwin: copy texture %s: %w", t.path, err)
	}
	return nil
}

// RenderText rasterizes text with the font and anchors it at a position
// relative to the drawable area.
func (w *Window) RenderText(font core.Font, text string, pos core.Vec2, align core.Alignment, color core.Color) error {
	f, ok := font.(*Font)
	if !ok {
		return fmt.Errorf("sdlwin: font %T belongs to another backend", font)
	}
	if text == "" {
		return nil
	}

	surface, err := f.font.RenderUTF8Blended(text, sdl.Color{R: color.R, G: color.G, B: color.B, A: 255})
	if err != nil {
		return fmt.Errorf("sdlwin: render text: %w", err)
	}
	defer surface.Free()

	texture, err := w.renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return fmt.Errorf("sdlwin: text texture: %w", err)
	}
	defer func() { _ = texture.Destroy() }()

	area, err := w.outputArea()
	if err != nil {
		return err
	}
	dst := toSDLRect(core.Place(area, pos, int(surface.W), int(surface.H), align))
	if err := w.renderer.Copy(texture, nil, &dst); err != nil {
		return fmt.Errorf("sdlwin: copy text: %w", err)
	}
	return nil
}

// Close destroys the renderer and window and shuts SDL down.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if err := w.renderer.Destroy(); err != nil {
		errs = append(errs, err)
	}
	if err := w.window.Destroy(); err != nil {
		errs = append(errs, err)
	}
	if w.images {
		img.Quit()
	}
	ttf.Quit()
	sdl.Quit()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("sdlwin: close: %w", err)
	}
	return nil
}

func toSDLRect(r core.Rect) sdl.Rect {
	return sdl.Rect{X: int32(r.X), Y: int32(r.Y), W: int32(r.W), H: int32(r.H)}
}
