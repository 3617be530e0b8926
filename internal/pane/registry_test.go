package pane

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeSurface stands in for a PTY-backed term.Window.
type fakeSurface struct {
	mu     sync.Mutex
	sent   []string
	sigs   int
	title  string
	closed bool
	done   chan struct{}
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{done: make(chan struct{})}
}

func (f *fakeSurface) SendText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeSurface) Interrupt() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sigs++
	return nil
}

func (f *fakeSurface) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
}

func (f *fakeSurface) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSurface) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeSurface) Done() <-chan struct{} { return f.done }
func (f *fakeSurface) PID() int              { return 1234 }
func (f *fakeSurface) Tail(max int) []string { return nil }

// exit simulates process termination without destroying the surface.
func (f *fakeSurface) exit() { close(f.done) }

type testEnv struct {
	reg      *Registry
	surfaces map[string]*fakeSurface
}

func newTestEnv() *testEnv {
	env := &testEnv{surfaces: make(map[string]*fakeSurface)}
	env.reg = NewRegistry(func(id, name string) (Surface, error) {
		s := newFakeSurface()
		env.surfaces[id] = s
		return s, nil
	})
	return env
}

func seqOf(t *testing.T, id string) int {
	t.Helper()
	n, err := strconv.Atoi(strings.TrimPrefix(id, IDPrefix))
	if err != nil {
		t.Fatalf("unparseable pane id %q", id)
	}
	return n
}

func TestCreatePaneIDsMonotonic(t *testing.T) {
	env := newTestEnv()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := env.reg.CreatePane("")
		if err != nil {
			t.Fatalf("CreatePane: %v", err)
		}
		ids = append(ids, id)
	}

	// Kill the middle pane; the next id must still advance past all prior.
	env.reg.KillPane(ids[1])
	id4, err := env.reg.CreatePane("after-kill")
	if err != nil {
		t.Fatalf("CreatePane: %v", err)
	}
	ids = append(ids, id4)

	seen := make(map[string]bool)
	prev := 0
	for _, id := range ids {
		if !strings.HasPrefix(id, IDPrefix) {
			t.Errorf("id %q missing prefix %q", id, IDPrefix)
		}
		if seen[id] {
			t.Errorf("id %q allocated twice", id)
		}
		seen[id] = true
		n := seqOf(t, id)
		if n <= prev {
			t.Errorf("id sequence not strictly increasing: %d after %d", n, prev)
		}
		prev = n
	}
}

func TestCreatePaneSpawnFailureLeavesNoEntry(t *testing.T) {
	reg := NewRegistry(func(id, name string) (Surface, error) {
		return nil, errors.New("fork failed")
	})

	if _, err := reg.CreatePane("x"); err == nil {
		t.Fatal("expected spawn error")
	}
	if got := reg.Snapshot(); len(got) != 0 {
		t.Errorf("failed create left %d registry entries", len(got))
	}
}

func TestUnknownIDOperationsAreNoOps(t *testing.T) {
	env := newTestEnv()
	id, _ := env.reg.CreatePane("keep")

	for _, ghost := range []string{"%emacs-999", "%0", "", "garbage"} {
		env.reg.SendKeys(ghost, "hello")
		env.reg.Interrupt(ghost)
		env.reg.SetInfo(ghost, "t", "c")
		env.reg.KillPane(ghost)
	}

	if got := env.reg.ListPanes(); !reflect.DeepEqual(got, []string{id}) {
		t.Errorf("live set disturbed by no-op calls: %v", got)
	}
	s := env.surfaces[id]
	if len(s.sent) != 0 || s.sigs != 0 {
		t.Errorf("no-op calls reached the live surface: sent=%v sigs=%d", s.sent, s.sigs)
	}
}

func TestListPanesReflectsLivenessOnly(t *testing.T) {
	env := newTestEnv()
	a, _ := env.reg.CreatePane("a")
	b, _ := env.reg.CreatePane("b")
	c, _ := env.reg.CreatePane("c")

	env.reg.KillPane(b)

	if got := env.reg.ListPanes(); !reflect.DeepEqual(got, []string{a, c}) {
		t.Errorf("ListPanes = %v, want [%s %s]", got, a, c)
	}
}

func TestExitWatcherMarksFinishedWithoutRemoving(t *testing.T) {
	env := newTestEnv()
	id, _ := env.reg.CreatePane("agent")

	env.surfaces[id].exit()

	waitForStatus(t, env.reg, id, Finished)

	// Still listed: the surface exists, only the process is gone.
	if got := env.reg.ListPanes(); !reflect.DeepEqual(got, []string{id}) {
		t.Errorf("finished pane vanished from ListPanes: %v", got)
	}
	if env.surfaces[id].Closed() {
		t.Error("exit watcher closed the surface")
	}
}

func TestDeadPaneAddressableButInert(t *testing.T) {
	env := newTestEnv()
	id, _ := env.reg.CreatePane("doomed")

	// Surface destroyed behind the registry's back.
	_ = env.surfaces[id].Close()

	if got := env.reg.ListPanes(); len(got) != 0 {
		t.Fatalf("dead pane still listed: %v", got)
	}

	// Metadata updates still land on the registry entry.
	env.reg.SetInfo(id, "late title", "red")
	snap := env.reg.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("dead pane reaped without KillPane: %v", snap)
	}
	if snap[0].Status != Dead {
		t.Errorf("status = %v, want dead", snap[0].Status)
	}
	if snap[0].Title != "late title" {
		t.Errorf("SetInfo skipped dead registry entry: %+v", snap[0])
	}
	if env.surfaces[id].title == "late title" {
		t.Error("SetInfo touched a destroyed surface")
	}

	// Input and signals are inert.
	env.reg.SendKeys(id, "into the void")
	env.reg.Interrupt(id)
	if len(env.surfaces[id].sent) != 0 || env.surfaces[id].sigs != 0 {
		t.Error("dead pane received input")
	}

	// The kill finally reaps the entry, idempotently.
	env.reg.KillPane(id)
	env.reg.KillPane(id)
	if got := env.reg.Snapshot(); len(got) != 0 {
		t.Errorf("kill left entries behind: %v", got)
	}
}

func TestSetInfoUpdatesLiveIndicator(t *testing.T) {
	env := newTestEnv()
	id, _ := env.reg.CreatePane("worker")

	env.reg.SetInfo(id, "compiling", "#50FA7B")

	snap := env.reg.Snapshot()
	if snap[0].Title != "compiling" || snap[0].AccentColor != "#50FA7B" {
		t.Errorf("registry entry not updated: %+v", snap[0])
	}
	if env.surfaces[id].title != "compiling" {
		t.Errorf("surface title = %q, want %q", env.surfaces[id].title, "compiling")
	}
}

func TestSendKeysReachesLivePane(t *testing.T) {
	env := newTestEnv()
	id, _ := env.reg.CreatePane("shell")

	env.reg.SendKeys(id, "echo hi")

	if got := env.surfaces[id].sent; !reflect.DeepEqual(got, []string{"echo hi"}) {
		t.Errorf("sent = %v", got)
	}
}

func TestRegisterSessionIdempotent(t *testing.T) {
	env := newTestEnv()

	if env.reg.HasSession("main") {
		t.Error("HasSession true before registration")
	}
	for i := 0; i < 5; i++ {
		if got := env.reg.RegisterSession("main"); got != LeaderID {
			t.Errorf("RegisterSession = %q, want %q", got, LeaderID)
		}
		if !env.reg.HasSession("main") {
			t.Error("HasSession false after registration")
		}
	}
}

func TestKillPaneClosesSurface(t *testing.T) {
	env := newTestEnv()
	id, _ := env.reg.CreatePane("victim")

	env.reg.KillPane(id)

	if !env.surfaces[id].Closed() {
		t.Error("KillPane did not release the surface")
	}
}

func TestConcurrentExitAndQueries(t *testing.T) {
	env := newTestEnv()
	var ids []string
	for i := 0; i < 8; i++ {
		id, _ := env.reg.CreatePane("p")
		ids = append(ids, id)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			env.surfaces[id].exit()
		}(id)
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = env.reg.ListPanes()
			_ = env.reg.Snapshot()
			env.reg.SetInfo(ids[0], "t", "c")
		}()
	}
	wg.Wait()

	for _, id := range ids {
		waitForStatus(t, env.reg, id, Finished)
	}
	if got := len(env.reg.ListPanes()); got != len(ids) {
		t.Errorf("live count = %d, want %d", got, len(ids))
	}
}

func waitForStatus(t *testing.T, reg *Registry, id string, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, info := range reg.Snapshot() {
			if info.ID == id && info.Status == want {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("pane %s never reached status %v", id, want)
}
