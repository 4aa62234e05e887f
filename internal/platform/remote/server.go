// Package remote serves the loop over SSH. Every session gets its own loop on
// the terminal backend, drawn through the session's PTY.
package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/terminfo"

	"github.com/vovakirdan/tickengine/internal/app"
	"github.com/vovakirdan/tickengine/internal/config"
	"github.com/vovakirdan/tickengine/internal/storage"
)

// fallbackTerm is used when the client's TERM has no terminfo entry.
const fallbackTerm = "xterm-256color"

// ServerConfig holds configuration for the SSH server.
type ServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tickengine/host_key.
	HostKeyPath string

	// DBPath is the session history database. Empty disables history.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Engine configures every session's loop.
	Engine config.Config
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:     ":23235",
		DBPath:      "~/.tickengine/sessions.db",
		IdleTimeout: 30 * time.Minute,
		Engine:      config.Default(),
	}
}

// Server wraps a Wish SSH server.
type Server struct {
	config ServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	active atomic.Int64

	closeOnce sync.Once
}

// NewServer creates a new SSH server with the given configuration.
func NewServer(cfg ServerConfig, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}

	srv := &Server{
		config: cfg,
		logger: logger,
	}

	if cfg.DBPath != "" {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("could not open session database", "err", err)
		} else {
			srv.store = store
		}
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			srv.closeStore()
			return nil, fmt.Errorf("remote: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".tickengine", "host_key")
	}

	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("remote: cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			srv.loopMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("remote: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// loopMiddleware runs one loop per session and never calls next: the loop
// owns the session until it ends.
func (s *Server) loopMiddleware(_ ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		logger := s.logger.With("user", sess.User())

		pty, windows, ok := sess.Pty()
		if !ok {
			wish.Fatalln(sess, "tickengine: a terminal is required, connect with ssh -t")
			return
		}

		tty := newSessionTTY(sess, pty.Window.Width, pty.Window.Height)
		defer tty.Close()
		go tty.watch(windows)

		screen, err := tcell.NewTerminfoScreenFromTtyTerminfo(tty, lookupTerminfo(pty.Term, logger))
		if err != nil {
			logger.Error("cannot create screen", "err", err)
			wish.Fatalln(sess, "tickengine: unsupported terminal")
			return
		}

		rt, err := app.Build(app.Options{
			Config:  s.config.Engine,
			Backend: config.BackendTerminal,
			Screen:  screen,
			Logger:  logger,
			NoAudio: true,
		})
		if err != nil {
			logger.Error("cannot start loop", "err", err)
			wish.Fatalln(sess, "tickengine: cannot start loop")
			return
		}

		stats, runErr := rt.Run(sess.Context())
		if err := rt.Close(); err != nil {
			logger.Warn("teardown failed", "err", err)
		}
		if runErr != nil {
			logger.Error("loop failed", "err", runErr)
		}

		logger.Info("loop finished",
			"frames", stats.Frames,
			"steps", stats.Steps,
			"fps", fmt.Sprintf("%.1f", stats.FPS()),
			"reason", stats.EndReason,
		)
		if s.store != nil {
			app.Record(s.store, "ssh", stats, logger)
		}
	}
}

func lookupTerminfo(term string, logger *log.Logger) *terminfo.Terminfo {
	ti, err := terminfo.LookupTerminfo(term)
	if err == nil {
		return ti
	}
	logger.Debug("unknown terminal, using fallback", "term", term, "fallback", fallbackTerm)
	ti, err = terminfo.LookupTerminfo(fallbackTerm)
	if err != nil {
		return nil
	}
	return ti
}

// loggingMiddleware logs SSH session events.
func (s *Server) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		n := s.active.Add(1)
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"active", n,
		)
		next(sess)
		n = s.active.Add(-1)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"active", n,
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		s.closeStore()
		if ok {
			return fmt.Errorf("remote: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeStore()
	return err
}

func (s *Server) closeStore() {
	s.closeOnce.Do(func() {
		if s.store != nil {
			s.store.Close()
		}
	})
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}

// Active returns the number of connected sessions.
func (s *Server) Active() int64 {
	return s.active.Load()
}
