// Package ctlserver exposes the pane registry over a local unix socket. Shim
// executables running inside panes dial the socket, write one request line,
// and read the reply, so every control call is a short-lived connection.
package ctlserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dakling/shimux/internal/pane"
	"github.com/dakling/shimux/internal/telemetry"
)

// Rebalancer re-spreads the visible viewports after the live set changed.
type Rebalancer interface {
	Rebalance(live []string)
}

// Server accepts control connections and dispatches them onto the registry.
type Server struct {
	registry   *pane.Registry
	rebalancer Rebalancer
	log        *slog.Logger
	metrics    *telemetry.Metrics

	mu       sync.Mutex
	listener net.Listener
	path     string
}

// New wires a server to its registry. rebalancer may be nil when no layout
// is attached (headless mode).
func New(registry *pane.Registry, rebalancer Rebalancer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{registry: registry, rebalancer: rebalancer, log: log}
}

// DefaultSocketPath returns the per-process control socket location, under
// the user runtime dir when available.
func DefaultSocketPath() string {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "shimux", fmt.Sprintf("ctl-%d.sock", os.Getpid()))
}

// Listen binds the socket and starts the accept loop. A stale socket file
// from a dead process is removed first. The socket is restricted to the
// owning user.
func (s *Server) Listen(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("ctlserver: create socket dir: %w", err)
	}
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSocket != 0 {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("ctlserver: remove stale socket: %w", err)
		}
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("ctlserver: listen: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return fmt.Errorf("ctlserver: chmod socket: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.path = path
	s.mu.Unlock()

	go s.acceptLoop(ln)
	s.log.Info("control socket listening", "path", path)
	return nil
}

// SetMetrics attaches call counters. Nil leaves recording off.
func (s *Server) SetMetrics(m *telemetry.Metrics) { s.metrics = m }

// Path returns the bound socket path, or "" before Listen.
func (s *Server) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Close stops accepting and removes the socket file.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.listener
	path := s.path
	s.listener = nil
	s.mu.Unlock()

	if ln == nil {
		return nil
	}
	err := ln.Close()
	if path != "" {
		_ = os.Remove(path)
	}
	return err
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.log.Error("accept failed", "err", err)
			}
			return
		}
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return
	}
	req, err := parseRequest(line)
	if err != nil {
		s.log.Warn("bad control request", "err", err)
		return
	}

	reply := s.dispatch(req)
	if _, err := conn.Write([]byte(reply)); err != nil {
		s.log.Warn("control reply failed", "op", req.op, "err", err)
	}
}

// dispatch executes one call. Replies are plain strings: the shim scripts
// echo them verbatim.
func (s *Server) dispatch(req request) string {
	s.metrics.RecordCall(context.Background(), req.op)
	switch req.op {
	case OpCreatePane:
		id, err := s.registry.CreatePane(req.args[0])
		if err != nil {
			s.log.Error("create pane failed", "name", req.args[0], "err", err)
			return ""
		}
		return id
	case OpSendKeys:
		s.registry.SendKeys(req.args[0], req.rest)
		return "ok"
	case OpSendInterrupt:
		s.registry.Interrupt(req.args[0])
		return "ok"
	case OpKillPane:
		s.registry.KillPane(req.args[0])
		s.rebalance()
		return "ok"
	case OpListPanes:
		return strings.Join(s.registry.ListPanes(), "\n")
	case OpSetPaneInfo:
		s.registry.SetInfo(req.args[0], req.rest, req.args[1])
		return "ok"
	case OpHasSession:
		if s.registry.HasSession(req.args[0]) {
			return "1"
		}
		return "0"
	case OpRegisterSession:
		return s.registry.RegisterSession(req.args[0])
	case OpRebalance:
		s.rebalance()
		return "ok"
	default:
		return ""
	}
}

func (s *Server) rebalance() {
	if s.rebalancer != nil {
		s.rebalancer.Rebalance(s.registry.ListPanes())
	}
}
