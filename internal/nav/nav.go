// Package nav implements deterministic focus traversal over the live pane
// set. The total order is ascending pane id, re-evaluated on every call.
package nav

// Next returns the pane after current in the fixed order, wrapping from the
// last element to the first. When current is not a live pane (the focus sits
// somewhere else), the first element is returned. Empty input yields "".
func Next(current string, liveIDs []string) string {
	if len(liveIDs) == 0 {
		return ""
	}
	for i, id := range liveIDs {
		if id == current {
			return liveIDs[(i+1)%len(liveIDs)]
		}
	}
	return liveIDs[0]
}

// Prev returns the pane before current, wrapping from the first element to
// the last. Focus outside the pane set defaults to the first element, same
// as Next.
func Prev(current string, liveIDs []string) string {
	if len(liveIDs) == 0 {
		return ""
	}
	for i, id := range liveIDs {
		if id == current {
			return liveIDs[(i-1+len(liveIDs))%len(liveIDs)]
		}
	}
	return liveIDs[0]
}
