package nav

import "testing"

func TestNextPrev(t *testing.T) {
	live := []string{"%emacs-1", "%emacs-2", "%emacs-3"}

	tests := []struct {
		name    string
		fn      func(string, []string) string
		current string
		expect  string
	}{
		{"next moves forward", Next, "%emacs-1", "%emacs-2"},
		{"next wraps from last to first", Next, "%emacs-3", "%emacs-1"},
		{"prev moves backward", Prev, "%emacs-2", "%emacs-1"},
		{"prev wraps from first to last", Prev, "%emacs-1", "%emacs-3"},
		{"next defaults to first off-pane", Next, "", "%emacs-1"},
		{"prev defaults to first off-pane", Prev, "scratch", "%emacs-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.current, live); got != tt.expect {
				t.Errorf("got %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestEmptyLiveSet(t *testing.T) {
	if got := Next("x", nil); got != "" {
		t.Errorf("Next on empty set = %q, want empty", got)
	}
	if got := Prev("x", nil); got != "" {
		t.Errorf("Prev on empty set = %q, want empty", got)
	}
}

func TestSingleElementWrap(t *testing.T) {
	live := []string{"%emacs-9"}
	if got := Next("%emacs-9", live); got != "%emacs-9" {
		t.Errorf("Next = %q", got)
	}
	if got := Prev("%emacs-9", live); got != "%emacs-9" {
		t.Errorf("Prev = %q", got)
	}
}
