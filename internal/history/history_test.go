package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenAt(filepath.Join(t.TempDir(), "history.db"), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndListRecent(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	s.Record("%emacs-1", "build", "created", base)
	s.Record("%emacs-1", "build", "finished", base.Add(time.Minute))
	s.Record("%emacs-2", "tests", "created", base.Add(2*time.Minute))

	got, err := s.ListRecent(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].PaneID != "%emacs-2" || got[0].Event != "created" {
		t.Errorf("newest entry = %+v", got[0])
	}
	if got[2].PaneID != "%emacs-1" || got[2].Event != "created" {
		t.Errorf("oldest entry = %+v", got[2])
	}
	if !got[1].At.Equal(base.Add(time.Minute)) {
		t.Errorf("timestamp = %v, want %v", got[1].At, base.Add(time.Minute))
	}
}

func TestListRecentHonorsLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		s.Record("%emacs-1", "w", "created", time.Now())
	}
	got, err := s.ListRecent(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d entries, want 2", len(got))
	}
}
