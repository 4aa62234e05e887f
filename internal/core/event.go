package core

import (
	"iter"
	"slices"
	"strings"
)

// EventKind classifies a discrete input or system event.
type EventKind int

const (
	EventNone   EventKind = iota
	EventQuit             // Window closed, Ctrl+C, session ended
	EventKeyUp            // A key was released (terminals report presses as releases)
	EventResize           // Drawable area changed size
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "None"
	case EventQuit:
		return "Quit"
	case EventKeyUp:
		return "KeyUp"
	case EventResize:
		return "Resize"
	default:
		return "Unknown"
	}
}

// Key is a lower-case key name such as "f", "escape" or "space".
type Key string

// NormalizeKey lower-cases and trims a key name so backends and config agree.
func NormalizeKey(name string) Key {
	return Key(strings.ToLower(strings.TrimSpace(name)))
}

// Event is a single discrete event drained by the fixed-step callback.
type Event struct {
	Kind EventKind
	Key  Key // Set for EventKeyUp
	W, H int // Set for EventResize
}

// QuitEvent returns a termination request.
func QuitEvent() Event {
	return Event{Kind: EventQuit}
}

// KeyUpEvent returns a key release for the named key.
func KeyUpEvent(name string) Event {
	return Event{Kind: EventKeyUp, Key: NormalizeKey(name)}
}

// EventSource yields the events queued since the previous drain.
// Each call to Events starts a fresh, finite sequence; it never blocks waiting
// for new input.
type EventSource interface {
	Events() iter.Seq[Event]
}

// EventQueue is an in-memory EventSource. Pushed events are handed out by the
// next drain. It is not safe for concurrent use.
type EventQueue struct {
	pending []Event
}

// Push appends events to the queue.
func (q *EventQueue) Push(events ...Event) {
	q.pending = append(q.pending, events...)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	return len(q.pending)
}

// Events drains the queue lazily. Events left unconsumed by an early break stay
// queued for the next drain.
func (q *EventQueue) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for len(q.pending) > 0 {
			ev := q.pending[0]
			q.pending = slices.Delete(q.pending, 0, 1)
			if !yield(ev) {
				return
			}
		}
	}
}
