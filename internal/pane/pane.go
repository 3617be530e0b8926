// Package pane owns the registry of spawned terminal sessions: stable id
// allocation, liveness tracking, the session-name table, and the exit
// watcher. Every control-surface operation lands here.
package pane

import (
	"time"
)

const (
	// IDPrefix is kept verbatim from the control surface this registry
	// emulates; callers parse the leading '%' and treat the rest as opaque.
	IDPrefix = "%emacs-"

	// LeaderID is the fixed "pane zero" identifier returned for any
	// registered session.
	LeaderID = "%0"
)

// Status classifies a registry entry for display.
type Status int

const (
	Running  Status = iota // process alive, surface present
	Finished               // process exited, surface still present
	Dead                   // surface destroyed behind the registry's back
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Surface is the subset of the terminal session handle the registry depends
// on. The concrete implementation is term.Window; tests substitute a fake.
type Surface interface {
	SendText(text string) error
	Interrupt() error
	SetTitle(title string)
	Close() error
	Closed() bool
	// Done is closed when the underlying process terminates.
	Done() <-chan struct{}
	PID() int
	Tail(max int) []string
}

// Pane is one spawned terminal session plus its metadata. The registry is
// the sole owner of the surface handle.
type Pane struct {
	ID          string
	DisplayName string // caller-supplied at creation, immutable
	Title       string
	AccentColor string
	CreatedAt   time.Time
	Finished    bool

	seq     uint64
	surface Surface
}

func (p *Pane) live() bool {
	return p.surface != nil && !p.surface.Closed()
}

func (p *Pane) status() Status {
	if !p.live() {
		return Dead
	}
	if p.Finished {
		return Finished
	}
	return Running
}

// Info is a read-only dashboard view of one registry entry.
type Info struct {
	ID          string
	DisplayName string
	Title       string
	AccentColor string
	Status      Status
	CreatedAt   time.Time
}

// Label returns the presentation name for a pane: title if set, else the
// display name, else the id.
func (i Info) Label() string {
	if i.Title != "" {
		return i.Title
	}
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.ID
}

// EventKind identifies a registry change notification.
type EventKind int

const (
	EventCreated EventKind = iota
	EventFinished
	EventKilled
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventFinished:
		return "finished"
	case EventKilled:
		return "killed"
	default:
		return "unknown"
	}
}

// Event signals that a pane changed.
type Event struct {
	Kind   EventKind
	PaneID string
}
