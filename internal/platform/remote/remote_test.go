package remote

import (
	"io"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/gdamore/tcell/v2"
)

type pipeRW struct {
	r *io.PipeReader
	w io.Writer
}

func (p pipeRW) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p pipeRW) Write(b []byte) (int, error) { return p.w.Write(b) }

type discard struct{}

func (discard) Write(b []byte) (int, error) { return len(b), nil }

func newPipeTTY(t *testing.T) (*sessionTTY, *io.PipeWriter) {
	t.Helper()
	r, w := io.Pipe()
	tty := newSessionTTY(pipeRW{r: r, w: discard{}}, 80, 24)
	t.Cleanup(func() {
		_ = w.Close()
		_ = tty.Close()
	})
	if err := tty.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return tty, w
}

func TestSessionTTYReadsInput(t *testing.T) {
	tty, w := newPipeTTY(t)

	go func() { _, _ = w.Write([]byte("hello")) }()

	buf := make([]byte, 3)
	n, err := tty.Read(buf)
	if err != nil || string(buf[:n]) != "hel" {
		t.Fatalf("Read() = (%q, %v), expected \"hel\"", buf[:n], err)
	}
	n, err = tty.Read(buf)
	if err != nil || string(buf[:n]) != "lo" {
		t.Fatalf("Read() = (%q, %v), expected leftover \"lo\"", buf[:n], err)
	}
}

func TestSessionTTYDrainReleasesReader(t *testing.T) {
	tty, _ := newPipeTTY(t)

	done := make(chan int, 1)
	go func() {
		n, _ := tty.Read(make([]byte, 8))
		done <- n
	}()

	time.Sleep(10 * time.Millisecond)
	if err := tty.Drain(); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}

	select {
	case n := <-done:
		if n != 0 {
			t.Errorf("Read() after Drain = %d bytes, expected 0", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Read() still blocked after Drain")
	}

	// Drain twice is harmless; Start re-arms the reader.
	if err := tty.Drain(); err != nil {
		t.Errorf("second Drain() error = %v", err)
	}
	if err := tty.Start(); err != nil {
		t.Errorf("Start() after Drain error = %v", err)
	}
}

func TestSessionTTYEOF(t *testing.T) {
	tty, w := newPipeTTY(t)
	_ = w.Close()

	if _, err := tty.Read(make([]byte, 8)); err != io.EOF {
		t.Errorf("Read() after close = %v, expected io.EOF", err)
	}
}

func TestSessionTTYResize(t *testing.T) {
	tty, _ := newPipeTTY(t)

	size, err := tty.WindowSize()
	if err != nil || size != (tcell.WindowSize{Width: 80, Height: 24}) {
		t.Fatalf("WindowSize() = (%+v, %v), expected 80x24", size, err)
	}

	var calls atomic.Int32
	tty.NotifyResize(func() { calls.Add(1) })

	windows := make(chan ssh.Window, 2)
	windows <- ssh.Window{Width: 100, Height: 30}
	windows <- ssh.Window{Width: 120, Height: 40}
	close(windows)
	tty.watch(windows)

	if calls.Load() != 2 {
		t.Errorf("resize callback called %d times, expected 2", calls.Load())
	}
	size, _ = tty.WindowSize()
	if size.Width != 120 || size.Height != 40 {
		t.Errorf("WindowSize() = %+v, expected 120x40", size)
	}
}

func TestNewServerAndShutdown(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(dir, "keys", "host_key")
	cfg.DBPath = filepath.Join(dir, "sessions.db")

	srv, err := NewServer(cfg, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr() = %q, expected 127.0.0.1:0", srv.Addr())
	}
	if srv.Active() != 0 {
		t.Errorf("Active() = %d, expected 0", srv.Active())
	}
	if err := srv.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
