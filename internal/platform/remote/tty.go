package remote

import (
	"io"
	"sync"

	"github.com/charmbracelet/ssh"
	"github.com/gdamore/tcell/v2"
)

// sessionTTY lets tcell drive an SSH channel as if it were a local terminal.
// Reads go through a pump so Drain can release a blocked reader when the
// screen is finalized.
type sessionTTY struct {
	rw io.ReadWriter

	mu       sync.Mutex
	size     tcell.WindowSize
	onResize func()
	drain    chan struct{}
	drained  bool
	pending  []byte

	data      chan []byte
	pumpOnce  sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

func newSessionTTY(rw io.ReadWriter, width, height int) *sessionTTY {
	return &sessionTTY{
		rw:    rw,
		size:  tcell.WindowSize{Width: width, Height: height},
		drain: make(chan struct{}),
		data:  make(chan []byte),
		done:  make(chan struct{}),
	}
}

func (t *sessionTTY) pump() {
	defer close(t.data)
	for {
		buf := make([]byte, 256)
		n, err := t.rw.Read(buf)
		if n > 0 {
			select {
			case t.data <- buf[:n]:
			case <-t.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Start arms the reader. tcell calls it on Init and on resume.
func (t *sessionTTY) Start() error {
	t.pumpOnce.Do(func() { go t.pump() })

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.drained {
		t.drain = make(chan struct{})
		t.drained = false
	}
	return nil
}

// Stop is a no-op: the SSH channel outlives the screen.
func (t *sessionTTY) Stop() error {
	return nil
}

// Drain makes pending and future reads return immediately until Start.
func (t *sessionTTY) Drain() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.drained {
		close(t.drain)
		t.drained = true
	}
	return nil
}

func (t *sessionTTY) NotifyResize(cb func()) {
	t.mu.Lock()
	t.onResize = cb
	t.mu.Unlock()
}

func (t *sessionTTY) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size, nil
}

// resize records a new window size and notifies tcell.
func (t *sessionTTY) resize(width, height int) {
	t.mu.Lock()
	t.size = tcell.WindowSize{Width: width, Height: height}
	cb := t.onResize
	t.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// watch applies window changes until the channel closes.
func (t *sessionTTY) watch(windows <-chan ssh.Window) {
	for w := range windows {
		t.resize(w.Width, w.Height)
	}
}

func (t *sessionTTY) Read(p []byte) (int, error) {
	t.mu.Lock()
	if len(t.pending) > 0 {
		n := copy(p, t.pending)
		t.pending = t.pending[n:]
		t.mu.Unlock()
		return n, nil
	}
	drain := t.drain
	t.mu.Unlock()

	select {
	case b, ok := <-t.data:
		if !ok {
			return 0, io.EOF
		}
		n := copy(p, b)
		if n < len(b) {
			t.mu.Lock()
			t.pending = append(t.pending, b[n:]...)
			t.mu.Unlock()
		}
		return n, nil
	case <-drain:
		return 0, nil
	}
}

func (t *sessionTTY) Write(p []byte) (int, error) {
	return t.rw.Write(p)
}

// Close stops the pump; the SSH session itself is closed by the server.
func (t *sessionTTY) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return nil
}

var _ tcell.Tty = (*sessionTTY)(nil)
