package sdlwin

import (
	"iter"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/vovakirdan/tickengine/internal/core"
)

// Events drains the SDL event queue.
func (w *Window) Events() iter.Seq[core.Event] {
	return func(yield func(core.Event) bool) {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			ev, ok := translate(event)
			if !ok {
				continue
			}
			if !yield(ev) {
				return
			}
		}
	}
}

func translate(event sdl.Event) (core.Event, bool) {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		return core.QuitEvent(), true
	case *sdl.KeyboardEvent:
		if ev.Type != sdl.KEYUP {
			return core.Event{}, false
		}
		return core.KeyUpEvent(sdl.GetKeyName(ev.Keysym.Sym)), true
	case *sdl.WindowEvent:
		switch ev.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return core.QuitEvent(), true
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return core.Event{Kind: core.EventResize, W: int(ev.Data1), H: int(ev.Data2)}, true
		}
	}
	return core.Event{}, false
}
