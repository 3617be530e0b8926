package term

import (
	"regexp"
	"strings"
	"sync"
)

const defaultTailLines = 200

// ansiRegex matches CSI/OSC escape sequences in raw PTY output.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)|\x1b[()][0-9A-Za-z]`)

// stripANSI removes escape sequences and carriage returns from raw output.
func stripANSI(s string) string {
	s = ansiRegex.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "\r", "")
}

// tailBuffer keeps the last N output lines. Raw bytes come in from the PTY
// reader; lines go out ANSI-stripped for preview rendering.
type tailBuffer struct {
	mu      sync.Mutex
	max     int
	lineBuf []string
	partial strings.Builder
}

func newTailBuffer(max int) *tailBuffer {
	if max <= 0 {
		max = defaultTailLines
	}
	return &tailBuffer{max: max}
}

func (t *tailBuffer) append(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, b := range data {
		if b == '\n' {
			t.pushLocked(t.partial.String())
			t.partial.Reset()
			continue
		}
		t.partial.WriteByte(b)
	}
}

func (t *tailBuffer) pushLocked(raw string) {
	t.lineBuf = append(t.lineBuf, stripANSI(raw))
	if len(t.lineBuf) > t.max {
		t.lineBuf = t.lineBuf[len(t.lineBuf)-t.max:]
	}
}

// lines returns up to max most recent complete lines plus any trailing
// partial line (the live prompt).
func (t *tailBuffer) lines(max int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := append([]string{}, t.lineBuf...)
	if t.partial.Len() > 0 {
		out = append(out, stripANSI(t.partial.String()))
	}
	if max > 0 && len(out) > max {
		out = out[len(out)-max:]
	}
	return out
}
