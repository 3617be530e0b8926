package pane

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// SpawnFunc starts the terminal session backing a new pane. It is the seam
// between the registry and the concrete PTY backend.
type SpawnFunc func(id, name string) (Surface, error)

// Recorder receives pane lifecycle events for the audit log. Implementations
// must not call back into the registry.
type Recorder interface {
	Record(paneID, name, event string, at time.Time)
}

// Registry owns the id-to-pane map, the monotonic id counter, and the
// session-name table. One coarse mutex serializes every mutation, including
// the finished flag set by exit watchers, so queries never observe a torn
// update.
type Registry struct {
	mu       sync.Mutex
	panes    map[string]*Pane
	sessions map[string]struct{}
	nextSeq  uint64

	spawn    SpawnFunc
	recorder Recorder
	events   chan Event
}

// NewRegistry creates an empty registry backed by the given spawn function.
func NewRegistry(spawn SpawnFunc) *Registry {
	return &Registry{
		panes:    make(map[string]*Pane),
		sessions: make(map[string]struct{}),
		spawn:    spawn,
		events:   make(chan Event, 64),
	}
}

// SetRecorder attaches a lifecycle recorder. Nil disables recording.
func (r *Registry) SetRecorder(rec Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorder = rec
}

// Events returns the coalesced change-notification channel. Notifications
// are dropped, not blocked on, when the consumer lags.
func (r *Registry) Events() <-chan Event { return r.events }

// CreatePane spawns a new terminal session and registers it under a fresh
// monotonic id. Ids are never reused, even after the pane is killed. A spawn
// failure leaves no registry entry behind.
func (r *Registry) CreatePane(name string) (string, error) {
	r.mu.Lock()
	r.nextSeq++
	seq := r.nextSeq
	r.mu.Unlock()

	id := fmt.Sprintf("%s%d", IDPrefix, seq)
	surface, err := r.spawn(id, name)
	if err != nil {
		return "", fmt.Errorf("pane: spawn %s: %w", id, err)
	}

	p := &Pane{
		ID:          id,
		DisplayName: name,
		CreatedAt:   time.Now(),
		seq:         seq,
		surface:     surface,
	}

	r.mu.Lock()
	r.panes[id] = p
	rec := r.recorder
	r.mu.Unlock()

	go r.watchExit(id, surface)

	if rec != nil {
		rec.Record(id, name, EventCreated.String(), p.CreatedAt)
	}
	r.notify(Event{Kind: EventCreated, PaneID: id})
	return id, nil
}

// watchExit blocks until the pane's process terminates, then marks the entry
// finished. It never removes the entry or touches the surface: the final
// output stays readable until an explicit kill.
func (r *Registry) watchExit(id string, surface Surface) {
	<-surface.Done()

	r.mu.Lock()
	p, ok := r.panes[id]
	var rec Recorder
	var name string
	if ok && !p.Finished {
		p.Finished = true
		rec = r.recorder
		name = p.DisplayName
	} else {
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	if rec != nil {
		rec.Record(id, name, EventFinished.String(), time.Now())
	}
	r.notify(Event{Kind: EventFinished, PaneID: id})
}

// SendKeys writes text plus a line terminator into the pane's input stream.
// Unknown or dead ids are a silent no-op, never an error: the calling
// protocol must not fail because a pane already exited.
func (r *Registry) SendKeys(id, text string) {
	r.mu.Lock()
	p := r.panes[id]
	var surface Surface
	if p != nil && p.live() {
		surface = p.surface
	}
	r.mu.Unlock()

	if surface != nil {
		_ = surface.SendText(text)
	}
}

// Interrupt delivers an interrupt signal to the pane's process group, if
// live. No-op otherwise.
func (r *Registry) Interrupt(id string) {
	r.mu.Lock()
	p := r.panes[id]
	var surface Surface
	if p != nil && p.live() {
		surface = p.surface
	}
	r.mu.Unlock()

	if surface != nil {
		_ = surface.Interrupt()
	}
}

// SetInfo updates presentation metadata. The registry entry is updated even
// when the surface is gone (the entry stays addressable while it exists);
// the live surface's title indicator is updated only when it still exists.
func (r *Registry) SetInfo(id, title, color string) {
	r.mu.Lock()
	p := r.panes[id]
	var surface Surface
	if p != nil {
		p.Title = title
		p.AccentColor = color
		if p.live() {
			surface = p.surface
		}
	}
	r.mu.Unlock()

	if surface != nil {
		surface.SetTitle(title)
	}
}

// KillPane releases the session resources and removes the entry. Killing an
// absent id, or one whose surface was already destroyed, is idempotent
// success.
func (r *Registry) KillPane(id string) {
	r.mu.Lock()
	p := r.panes[id]
	var surface Surface
	var rec Recorder
	var name string
	if p != nil {
		delete(r.panes, id)
		surface = p.surface
		rec = r.recorder
		name = p.DisplayName
	}
	r.mu.Unlock()

	if p == nil {
		return
	}
	if surface != nil {
		_ = surface.Close()
	}
	if rec != nil {
		rec.Record(id, name, EventKilled.String(), time.Now())
	}
	r.notify(Event{Kind: EventKilled, PaneID: id})
}

// ListPanes returns the ids of all live panes (surface still present) in
// ascending id order. This is the authoritative liveness view used by the
// layout engine and navigation.
func (r *Registry) ListPanes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := make([]*Pane, 0, len(r.panes))
	for _, p := range r.panes {
		if p.live() {
			live = append(live, p)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].seq < live[j].seq })

	ids := make([]string, len(live))
	for i, p := range live {
		ids[i] = p.ID
	}
	return ids
}

// Snapshot returns dashboard rows for every registry entry, live or not, in
// ascending id order.
func (r *Registry) Snapshot() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*Pane, 0, len(r.panes))
	for _, p := range r.panes {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })

	infos := make([]Info, len(all))
	for i, p := range all {
		infos[i] = Info{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Title:       p.Title,
			AccentColor: p.AccentColor,
			Status:      p.status(),
			CreatedAt:   p.CreatedAt,
		}
	}
	return infos
}

// Surface returns the terminal handle for a live pane, or nil. The TUI uses
// it to render viewport previews; ownership stays with the registry.
func (r *Registry) Surface(id string) Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.panes[id]; p != nil && p.live() {
		return p.surface
	}
	return nil
}

// HasSession reports whether the named session was registered.
func (r *Registry) HasSession(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[name]
	return ok
}

// RegisterSession records the session name and returns the fixed leader id,
// however many times it is called.
func (r *Registry) RegisterSession(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[name] = struct{}{}
	return LeaderID
}

// Close tears down every pane surface. Used at host shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	surfaces := make([]Surface, 0, len(r.panes))
	for _, p := range r.panes {
		if p.surface != nil {
			surfaces = append(surfaces, p.surface)
		}
	}
	r.panes = make(map[string]*Pane)
	r.mu.Unlock()

	for _, s := range surfaces {
		_ = s.Close()
	}
}

func (r *Registry) notify(ev Event) {
	select {
	case r.events <- ev:
	default:
	}
}
