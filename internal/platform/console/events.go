package console

import (
	"iter"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tickengine/internal/core"
)

// Events drains the terminal events queued since the previous call.
// Terminals report key presses only, so a press is delivered as a release.
func (d *Display) Events() iter.Seq[core.Event] {
	return func(yield func(core.Event) bool) {
		for {
			select {
			case ev := <-d.events:
				out, ok := d.translate(ev)
				if !ok {
					continue
				}
				if !yield(out) {
					return
				}
			default:
				return
			}
		}
	}
}

func (d *Display) translate(ev tcell.Event) (core.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return translateKey(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		d.screen.Sync()
		d.logger.Debug("terminal resized", "w", w, "h", h)
		return core.Event{Kind: core.EventResize, W: w, H: h}, true
	case *tcell.EventInterrupt:
		return core.QuitEvent(), true
	}
	return core.Event{}, false
}

func translateKey(ev *tcell.EventKey) (core.Event, bool) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return core.QuitEvent(), true
	case tcell.KeyRune:
		return core.KeyUpEvent(string(ev.Rune())), true
	}

	name, ok := tcell.KeyNames[ev.Key()]
	if !ok {
		return core.Event{}, false
	}
	return core.KeyUpEvent(strings.ReplaceAll(name, "-", "+")), true
}

// Interrupt asks the loop to stop at its next drain. Safe to call from any goroutine.
func (d *Display) Interrupt() {
	d.screen.PostEvent(tcell.NewEventInterrupt(nil))
}
