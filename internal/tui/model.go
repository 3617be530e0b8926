package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dakling/shimux/internal/layout"
	"github.com/dakling/shimux/internal/nav"
	"github.com/dakling/shimux/internal/pane"
)

const pollInterval = 1500 * time.Millisecond

type tickMsg time.Time

type paneEventMsg pane.Event

// RebalanceMsg asks the layout to re-spread the visible viewports. The
// control server sends it after a kill so the layout mutation happens on the
// program goroutine.
type RebalanceMsg struct{}

// ConfigMsg applies reloaded settings on the program goroutine.
type ConfigMsg struct {
	MinColumnWidth int
	PreviewLines   int
}

// NoticeMsg surfaces a transient status line, e.g. a failed launch.
type NoticeMsg struct {
	Text string
}

type launchDoneMsg struct {
	surface pane.Surface
	err     error
}

type viewMode int

const (
	modeViewports viewMode = iota
	modeDashboard
	modePicker
)

// Options configures the dashboard model.
type Options struct {
	// PreviewLines is the tail window rendered per viewport.
	PreviewLines int
	// Launch starts the agent session in the leader terminal. Nil disables
	// the binding.
	Launch  func() (pane.Surface, error)
	Version string
}

type Model struct {
	registry *pane.Registry
	engine   *layout.Engine
	opts     Options

	mode     viewMode
	leader   pane.Surface
	infos    []pane.Info
	seen     map[string]bool // pane ids already placed in the layout
	current  string          // focused pane id
	cursor   int    // picker cursor
	input    textinput.Model
	notice   string
	launched bool

	width, height int
	quitting      bool
}

func NewModel(registry *pane.Registry, engine *layout.Engine, opts Options) Model {
	if opts.PreviewLines <= 0 {
		opts.PreviewLines = 12
	}
	ti := textinput.New()
	ti.Placeholder = "Pane title or id..."
	ti.Prompt = ""
	ti.CharLimit = 128
	ti.Width = 40

	return Model{
		registry: registry,
		engine:   engine,
		opts:     opts,
		seen:     make(map[string]bool),
		input:    ti,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitEvent() tea.Cmd {
	events := m.registry.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return paneEventMsg(ev)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitEvent())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tickMsg:
		m.infos = m.registry.Snapshot()
		m.reconcile(m.registry.ListPanes())
		return m, tickCmd()

	case paneEventMsg:
		m.infos = m.registry.Snapshot()
		live := m.registry.ListPanes()
		switch msg.Kind {
		case pane.EventCreated:
			m.seen[msg.PaneID] = true
			m.engine.EnsureVisible(m.layoutWidth(), msg.PaneID, live)
			if m.current == "" {
				m.current = msg.PaneID
			}
		case pane.EventFinished, pane.EventKilled:
			m.engine.Rebalance(m.layoutWidth(), live)
			if m.current == msg.PaneID {
				m.current = nav.Next("", live)
			}
		}
		return m, m.waitEvent()

	case RebalanceMsg:
		m.engine.Rebalance(m.layoutWidth(), m.registry.ListPanes())
		return m, nil

	case ConfigMsg:
		m.engine.SetMinColumnWidth(msg.MinColumnWidth)
		if msg.PreviewLines > 0 {
			m.opts.PreviewLines = msg.PreviewLines
		}
		m.engine.Rebalance(m.layoutWidth(), m.registry.ListPanes())
		return m, nil

	case NoticeMsg:
		m.notice = msg.Text
		return m, nil

	case launchDoneMsg:
		if msg.err != nil {
			m.notice = "agent launch failed: " + msg.err.Error()
			m.launched = false
			return m, nil
		}
		m.leader = msg.surface
		m.notice = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.engine.Rebalance(m.layoutWidth(), m.registry.ListPanes())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modePicker {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.CtrlC) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.mode == modePicker {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.ShowAll):
		m.engine.ShowAll(m.layoutWidth(), m.registry.ListPanes())
		m.mode = modeViewports
		return m, nil

	case key.Matches(msg, keys.ToggleAll):
		m.engine.ToggleAll(m.layoutWidth(), m.registry.ListPanes())
		m.mode = modeViewports
		return m, nil

	case key.Matches(msg, keys.Next):
		live := m.registry.ListPanes()
		m.current = nav.Next(m.current, live)
		if m.current != "" {
			m.engine.EnsureVisible(m.layoutWidth(), m.current, live)
		}
		m.mode = modeViewports
		return m, nil

	case key.Matches(msg, keys.Prev):
		live := m.registry.ListPanes()
		m.current = nav.Prev(m.current, live)
		if m.current != "" {
			m.engine.EnsureVisible(m.layoutWidth(), m.current, live)
		}
		m.mode = modeViewports
		return m, nil

	case key.Matches(msg, keys.Picker):
		m.mode = modePicker
		m.cursor = 0
		m.input.SetValue("")
		m.input.Focus()
		m.infos = m.registry.Snapshot()
		return m, textinput.Blink

	case key.Matches(msg, keys.Dashboard):
		if m.mode == modeDashboard {
			m.mode = modeViewports
		} else {
			m.mode = modeDashboard
			m.infos = m.registry.Snapshot()
		}
		return m, nil

	case key.Matches(msg, keys.Kill):
		if m.current != "" {
			m.registry.KillPane(m.current)
		}
		return m, nil

	case key.Matches(msg, keys.Launch):
		return m.startAgent()

	case key.Matches(msg, keys.Escape):
		m.notice = ""
		return m, nil
	}

	return m, nil
}

// reconcile repairs the layout from the polled live set. Pane events normally
// drive layout updates, but the event channel drops on overflow, so the poll
// also places panes the events missed and sweeps out gone ones.
func (m *Model) reconcile(live []string) {
	isLive := make(map[string]bool, len(live))
	for _, id := range live {
		isLive[id] = true
	}
	for id := range m.seen {
		if !isLive[id] {
			delete(m.seen, id)
			m.engine.Rebalance(m.layoutWidth(), live)
			if m.current == id {
				m.current = nav.Next("", live)
			}
		}
	}
	for _, id := range live {
		if !m.seen[id] {
			m.seen[id] = true
			m.engine.EnsureVisible(m.layoutWidth(), id, live)
			if m.current == "" {
				m.current = id
			}
		}
	}
}

func (m Model) startAgent() (tea.Model, tea.Cmd) {
	if m.opts.Launch == nil || m.launched {
		return m, nil
	}
	m.launched = true
	launch := m.opts.Launch
	return m, func() tea.Msg {
		surface, err := launch()
		return launchDoneMsg{surface: surface, err: err}
	}
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	matches := m.pickerMatches()

	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = modeViewports
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		if len(matches) == 0 {
			m.notice = "no matching pane"
			m.mode = modeViewports
			m.input.Blur()
			return m, nil
		}
		if m.cursor >= len(matches) {
			m.cursor = 0
		}
		sel := matches[m.cursor]
		m.current = sel.ID
		m.engine.EnsureVisible(m.layoutWidth(), sel.ID, m.registry.ListPanes())
		m.mode = modeViewports
		m.input.Blur()
		return m, nil

	case msg.String() == "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case msg.String() == "down":
		if m.cursor < len(matches)-1 {
			m.cursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if n := len(m.pickerMatches()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	return m, cmd
}

// pickerMatches filters live panes by title or id, case-insensitive.
func (m Model) pickerMatches() []pane.Info {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	var out []pane.Info
	for _, info := range m.infos {
		if info.Status == pane.Dead {
			continue
		}
		if query == "" ||
			strings.Contains(strings.ToLower(info.Label()), query) ||
			strings.Contains(strings.ToLower(info.ID), query) {
			out = append(out, info)
		}
	}
	return out
}

func (m Model) infoFor(id string) (pane.Info, bool) {
	for _, info := range m.infos {
		if info.ID == id {
			return info, true
		}
	}
	return pane.Info{}, false
}

// layoutWidth is the terminal width, with a fallback before the first
// WindowSizeMsg arrives.
func (m Model) layoutWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}
