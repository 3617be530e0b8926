// Package term provides the PTY-backed terminal session handle a pane owns:
// process spawn, input injection, signaling, exit observation, and a plain
// text tail of recent output for viewport previews.
package term

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	xpty "github.com/charmbracelet/x/xpty"
	"github.com/kballard/go-shellquote"
)

const (
	defaultCols = 80
	defaultRows = 24
)

// Options describes how to start a session process.
type Options struct {
	ID    string
	Title string

	// Command is split shell-style and executed directly (no shell wrapping).
	// If empty, $SHELL (or sh) is used.
	Command string
	Dir     string
	Env     []string

	Cols int
	Rows int

	// TailLines bounds the output tail buffer. Zero means the default.
	TailLines int
}

// Window is one interactive terminal session: a process attached to a PTY,
// with an output tail and exit tracking.
type Window struct {
	id    string
	title atomic.Value // string

	cmd *exec.Cmd
	pty xpty.Pty

	ptyMu   sync.Mutex // guards pty pointer swap during close
	writeMu sync.Mutex // serializes PTY writes

	tail *tailBuffer

	cancel context.CancelFunc
	wg     sync.WaitGroup

	closed     atomic.Bool
	exited     atomic.Bool
	exitStatus atomic.Int64

	done chan struct{} // closed once the process has exited
}

// New starts a process attached to a fresh PTY.
func New(opts Options) (*Window, error) {
	if strings.TrimSpace(opts.ID) == "" {
		return nil, fmt.Errorf("term: window id is required")
	}

	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}

	name, args, err := splitCommand(opts.Command)
	if err != nil {
		return nil, fmt.Errorf("term: parse command %q: %w", opts.Command, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// #nosec G204 -- command comes from local configuration.
	cmd := exec.CommandContext(ctx, name, args...)
	if strings.TrimSpace(opts.Dir) != "" {
		cmd.Dir = opts.Dir
	}

	env := append([]string{}, os.Environ()...)
	if len(opts.Env) > 0 {
		env = mergeEnv(env, opts.Env)
	}
	if !hasEnv(env, "TERM") {
		env = append(env, "TERM=xterm-256color")
	}
	cmd.Env = env

	setupPTYCommand(cmd)

	pty, err := xpty.NewPty(cols, rows)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("term: create pty: %w", err)
	}
	if err := pty.Start(cmd); err != nil {
		cancel()
		_ = pty.Close()
		return nil, fmt.Errorf("term: start process: %w", err)
	}
	_ = pty.Resize(cols, rows)

	w := &Window{
		id:   opts.ID,
		cmd:  cmd,
		pty:  pty,
		tail: newTailBuffer(opts.TailLines),
		done: make(chan struct{}),
	}
	w.title.Store(opts.Title)
	w.cancel = cancel

	w.wg.Add(1)
	go w.readLoop()
	go w.waitExit(ctx)

	return w, nil
}

func (w *Window) ID() string { return w.id }

func (w *Window) Title() string {
	if v, ok := w.title.Load().(string); ok {
		return v
	}
	return ""
}

func (w *Window) SetTitle(title string) { w.title.Store(title) }

func (w *Window) Exited() bool { return w.exited.Load() }

func (w *Window) ExitStatus() int { return int(w.exitStatus.Load()) }

func (w *Window) Closed() bool { return w.closed.Load() }

func (w *Window) PID() int {
	if w == nil || w.cmd == nil || w.cmd.Process == nil {
		return 0
	}
	return w.cmd.Process.Pid
}

// Done is closed once the underlying process has terminated, by exit or
// signal. It fires at most once, independent of Close.
func (w *Window) Done() <-chan struct{} { return w.done }

// SendText writes text followed by a carriage return into the PTY, as if the
// user typed a line and pressed Enter.
func (w *Window) SendText(text string) error {
	return w.write(append([]byte(text), '\r'))
}

// Tail returns up to max most recent output lines with ANSI sequences
// stripped.
func (w *Window) Tail(max int) []string {
	if w == nil {
		return nil
	}
	return w.tail.lines(max)
}

// Interrupt delivers SIGINT to the process group of the session.
func (w *Window) Interrupt() error {
	pid := w.PID()
	if pid == 0 {
		return fmt.Errorf("term: window %q has no process", w.id)
	}
	return interruptGroup(pid)
}

// Close releases the PTY and stops the reader. The child process is
// terminated via the command context.
func (w *Window) Close() error {
	if w == nil {
		return nil
	}
	if w.closed.Swap(true) {
		return nil
	}

	if w.cancel != nil {
		w.cancel()
	}

	w.ptyMu.Lock()
	pty := w.pty
	w.pty = nil
	w.ptyMu.Unlock()
	if pty != nil {
		_ = pty.Close()
	}

	w.wg.Wait()
	return nil
}

func (w *Window) readLoop() {
	defer w.wg.Done()
	buf := make([]byte, 32*1024)
	for {
		w.ptyMu.Lock()
		pty := w.pty
		w.ptyMu.Unlock()
		if pty == nil {
			return
		}
		n, err := pty.Read(buf)
		if n > 0 {
			w.tail.append(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func (w *Window) waitExit(ctx context.Context) {
	if w.cmd == nil {
		return
	}
	_ = xpty.WaitProcess(ctx, w.cmd)
	if w.cmd.ProcessState != nil {
		w.exitStatus.Store(int64(w.cmd.ProcessState.ExitCode()))
	}
	w.exited.Store(true)
	close(w.done)
}

func (w *Window) write(data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.ptyMu.Lock()
	pty := w.pty
	w.ptyMu.Unlock()
	if pty == nil {
		return fmt.Errorf("term: window %q is closed", w.id)
	}
	_, err := pty.Write(data)
	return err
}

func splitCommand(command string) (string, []string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return detectShell(), nil, nil
	}
	parts, err := shellquote.Split(command)
	if err != nil {
		return "", nil, err
	}
	if len(parts) == 0 {
		return detectShell(), nil, nil
	}
	return parts[0], parts[1:], nil
}

func detectShell() string {
	if sh := strings.TrimSpace(os.Getenv("SHELL")); sh != "" {
		return sh
	}
	return "sh"
}

// mergeEnv overlays overrides onto base; an override replaces any base entry
// with the same key.
func mergeEnv(base, overrides []string) []string {
	merged := append([]string{}, base...)
	for _, kv := range overrides {
		key, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		replaced := false
		for i, existing := range merged {
			if strings.HasPrefix(existing, key+"=") {
				merged[i] = kv
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, kv)
		}
	}
	return merged
}

func hasEnv(env []string, key string) bool {
	for _, kv := range env {
		if strings.HasPrefix(kv, key+"=") {
			return true
		}
	}
	return false
}
