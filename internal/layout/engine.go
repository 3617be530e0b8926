// Package layout arranges live panes into a single row of equal-width
// viewports bounded by the display width, and keeps the one-shot snapshot
// used to undo tiling.
package layout

// DefaultMinColumnWidth is the narrowest useful viewport in cells.
const DefaultMinColumnWidth = 40

// Viewport is one region of the display showing a pane's terminal surface.
type Viewport struct {
	PaneID string
	Width  int
}

// Arrangement is a captured set of viewports, restorable exactly once.
type Arrangement struct {
	Viewports []Viewport
}

// Engine owns the viewport row and the saved pre-tiling arrangement. It is
// single-owner state: all calls come from the host UI goroutine, which also
// renders the viewports it computes.
type Engine struct {
	minColumnWidth int
	viewports      []Viewport
	saved          *Arrangement
}

// NewEngine creates an engine with the given minimum column width. Values
// below one fall back to the default.
func NewEngine(minColumnWidth int) *Engine {
	if minColumnWidth < 1 {
		minColumnWidth = DefaultMinColumnWidth
	}
	return &Engine{minColumnWidth: minColumnWidth}
}

// SetMinColumnWidth updates the tiling bound (config reload).
func (e *Engine) SetMinColumnWidth(w int) {
	if w >= 1 {
		e.minColumnWidth = w
	}
}

// Viewports returns the current arrangement, left to right.
func (e *Engine) Viewports() []Viewport {
	out := make([]Viewport, len(e.viewports))
	copy(out, e.viewports)
	return out
}

// Columns returns how many viewports fit into width: max(1, width/min).
func (e *Engine) Columns(width int) int {
	cols := width / e.minColumnWidth
	if cols < 1 {
		cols = 1
	}
	return cols
}

// ShowAll captures the current arrangement as the undo snapshot (only when
// none is already held), then replaces all viewports with up to
// min(columns, len(liveIDs)) equal-width viewports assigned to live panes in
// ascending id order. Live panes beyond the column bound are not shown.
func (e *Engine) ShowAll(width int, liveIDs []string) {
	if e.saved == nil {
		prior := make([]Viewport, len(e.viewports))
		copy(prior, e.viewports)
		e.saved = &Arrangement{Viewports: prior}
	}

	toShow := e.Columns(width)
	if len(liveIDs) < toShow {
		toShow = len(liveIDs)
	}

	e.viewports = e.viewports[:0]
	if toShow == 0 {
		return
	}
	widths := splitEvenly(width, toShow)
	for i := 0; i < toShow; i++ {
		e.viewports = append(e.viewports, Viewport{PaneID: liveIDs[i], Width: widths[i]})
	}
}

// ToggleAll restores and discards the held snapshot if there is one,
// otherwise tiles like ShowAll. A strict two-state toggle: "tiled" vs
// whatever the user had before.
func (e *Engine) ToggleAll(width int, liveIDs []string) {
	if e.saved != nil {
		e.viewports = e.saved.Viewports
		e.saved = nil
		return
	}
	e.ShowAll(width, liveIDs)
}

// Rebalance drops viewports whose pane is no longer live and re-equalizes
// the widths of the survivors without changing assignment. Called after any
// kill so remaining panes redistribute the freed space.
func (e *Engine) Rebalance(width int, liveIDs []string) {
	live := make(map[string]bool, len(liveIDs))
	for _, id := range liveIDs {
		live[id] = true
	}

	kept := e.viewports[:0]
	for _, vp := range e.viewports {
		if live[vp.PaneID] {
			kept = append(kept, vp)
		}
	}
	e.viewports = kept
	e.equalize(width)
}

// EnsureVisible makes the pane show in some viewport: an existing viewport
// whose pane is gone is reused, otherwise a new one is created (space
// permitting). Already-visible panes are left alone.
func (e *Engine) EnsureVisible(width int, id string, liveIDs []string) {
	live := make(map[string]bool, len(liveIDs))
	for _, lid := range liveIDs {
		live[lid] = true
	}

	for _, vp := range e.viewports {
		if vp.PaneID == id {
			return
		}
	}
	for i, vp := range e.viewports {
		if !live[vp.PaneID] {
			e.viewports[i].PaneID = id
			return
		}
	}
	if len(e.viewports) < e.Columns(width) {
		e.viewports = append(e.viewports, Viewport{PaneID: id})
	} else if len(e.viewports) == 0 {
		e.viewports = []Viewport{{PaneID: id}}
	} else {
		// Row is full; replace the rightmost viewport.
		e.viewports[len(e.viewports)-1].PaneID = id
	}
	e.equalize(width)
}

func (e *Engine) equalize(width int) {
	n := len(e.viewports)
	if n == 0 {
		return
	}
	widths := splitEvenly(width, n)
	for i := range e.viewports {
		e.viewports[i].Width = widths[i]
	}
}

// splitEvenly divides width into n near-equal parts, remainder to the last.
func splitEvenly(width, n int) []int {
	base := width / n
	if base < 1 {
		base = 1
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
	}
	if rem := width - base*n; rem > 0 {
		widths[n-1] += rem
	}
	return widths
}
