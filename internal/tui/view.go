package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dakling/shimux/internal/pane"
)

var (
	// Adaptive colors for light/dark terminal backgrounds
	accentColor = lipgloss.AdaptiveColor{Light: "#D6249F", Dark: "#FF79C6"}
	greenColor  = lipgloss.AdaptiveColor{Light: "#116620", Dark: "#50FA7B"}
	yellowColor = lipgloss.AdaptiveColor{Light: "#7D5A00", Dark: "#F1FA8C"}
	redColor    = lipgloss.AdaptiveColor{Light: "#B31D28", Dark: "#FF5555"}
	dimColor    = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#6272A4"}
	hlBgColor   = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#333333"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			PaddingLeft(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			PaddingLeft(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Background(hlBgColor)

	statusRunning = lipgloss.NewStyle().
			Foreground(greenColor)

	statusFinished = lipgloss.NewStyle().
			Foreground(yellowColor)

	statusDead = lipgloss.NewStyle().
			Foreground(dimColor)

	noticeStyle = lipgloss.NewStyle().
			Foreground(redColor).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			PaddingLeft(1)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	viewportTitleStyle = lipgloss.NewStyle().
				Bold(true)

	viewportBody = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BBBBBB"})
)

// pad right-pads s to width with spaces (based on visual width, not byte count).
func pad(s string, width int) string {
	visual := lipgloss.Width(s)
	if visual >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visual)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("shimux"))
	if m.notice != "" {
		b.WriteString(noticeStyle.Render("  " + m.notice))
	}
	b.WriteString("\n\n")

	switch m.mode {
	case modeDashboard:
		m.renderDashboard(&b)
	case modePicker:
		m.renderPicker(&b)
	default:
		m.renderViewports(&b)
	}

	b.WriteString("\n")
	switch m.mode {
	case modePicker:
		b.WriteString(helpStyle.Render("enter select  up/down navigate  esc back"))
	case modeDashboard:
		b.WriteString(helpStyle.Render("d viewports  a show all  t toggle  tab/n next  ctrl+k kill  q quit"))
	default:
		b.WriteString(helpStyle.Render("a show all  t toggle  tab/n next  / find  d dashboard  g start agent  q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderDashboard(b *strings.Builder) {
	if len(m.infos) == 0 {
		b.WriteString("  No panes yet. Press g to start the agent session.\n")
		return
	}

	wID, wName, wStatus := 4, 4, 8
	for _, info := range m.infos {
		if w := len(info.ID); w > wID {
			wID = w
		}
		if w := lipgloss.Width(info.Label()); w > wName {
			wName = w
		}
	}
	if wName > 32 {
		wName = 32
	}

	header := "    " + pad("ID", wID) + "  " + pad("NAME", wName) + "  " + pad("STATUS", wStatus) + "  CREATED"
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, info := range m.infos {
		name := info.Label()
		if lipgloss.Width(name) > wName {
			name = name[:wName-3] + "..."
		}
		created := info.CreatedAt.Format("15:04:05") + " (" + formatAge(time.Since(info.CreatedAt)) + ")"
		row := " " + pad(info.ID, wID) + "  " + pad(name, wName) + "  " +
			pad(renderStatus(info.Status), wStatus) + "  " + created

		if info.ID == m.current {
			b.WriteString(cursorStyle.Render(" >"))
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString("  ")
			b.WriteString(row)
		}
		b.WriteString("\n")
	}
}

func (m Model) renderViewports(b *strings.Builder) {
	if m.leader != nil {
		b.WriteString(m.renderLeader())
		b.WriteString("\n")
	}

	vps := m.engine.Viewports()
	if len(vps) == 0 {
		if m.leader == nil {
			b.WriteString("  Nothing on screen. Press g to start the agent, a to show all panes.\n")
		}
		return
	}

	boxes := make([]string, 0, len(vps))
	for _, vp := range vps {
		boxes = append(boxes, m.renderViewport(vp.PaneID, vp.Width))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	b.WriteString("\n")
}

// renderLeader draws the agent's own terminal across the full width, above
// the pane viewports.
func (m Model) renderLeader() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Width(max(1, m.layoutWidth()-2)).
		Padding(0, 1)

	title := viewportTitleStyle.Render("agent")
	lines := m.leader.Tail(m.opts.PreviewLines)
	return style.Render(title + "\n" + viewportBody.Render(strings.Join(lines, "\n")))
}

func (m Model) renderViewport(id string, width int) string {
	info, ok := m.infoFor(id)
	if !ok {
		info = pane.Info{ID: id, Status: pane.Dead}
	}

	border := dimColor
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(max(1, width-2)).
		Padding(0, 1)
	if info.AccentColor != "" {
		style = style.BorderForeground(lipgloss.Color(info.AccentColor))
	} else if id == m.current {
		style = style.BorderForeground(accentColor)
	} else {
		style = style.BorderForeground(border)
	}

	title := viewportTitleStyle.Render(info.Label()) + "  " + renderStatus(info.Status)

	var body string
	if surface := m.registry.Surface(id); surface != nil {
		lines := surface.Tail(m.opts.PreviewLines)
		body = viewportBody.Render(strings.Join(lines, "\n"))
	} else {
		body = statusDead.Render("(terminal gone)")
	}

	return style.Render(title + "\n" + body)
}

func (m Model) renderPicker(b *strings.Builder) {
	b.WriteString(inputLabelStyle.Render(" > "))
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	matches := m.pickerMatches()
	if len(matches) == 0 {
		b.WriteString("  No panes match.\n")
		return
	}
	for i, info := range matches {
		row := fmt.Sprintf(" %s  %s", pad(info.ID, 12), info.Label())
		if i == m.cursor {
			b.WriteString(cursorStyle.Render(" >"))
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString("  ")
			b.WriteString(row)
		}
		b.WriteString("\n")
	}
}

func renderStatus(s pane.Status) string {
	switch s {
	case pane.Running:
		return statusRunning.Render("running")
	case pane.Finished:
		return statusFinished.Render("finished")
	default:
		return statusDead.Render("dead")
	}
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
