package shim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstallWritesExecutableScript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bin")
	path, err := Install(dir, "/usr/local/bin/shimux")
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if filepath.Base(path) != "tmux" {
		t.Errorf("installed name = %q, want tmux", filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("script mode %v is not owner-executable", info.Mode().Perm())
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	script := string(body)
	if !strings.HasPrefix(script, "#!/bin/sh\n") {
		t.Error("missing shebang")
	}
	if !strings.Contains(script, "SHIMUX_BIN='/usr/local/bin/shimux'") {
		t.Error("binary path not substituted")
	}
	if strings.Contains(script, "{{BIN}}") {
		t.Error("placeholder left in script")
	}
	for _, op := range []string{"has_session", "register_session", "create_pane",
		"send_keys", "send_interrupt", "kill_pane", "list_panes", "set_pane_info"} {
		if !strings.Contains(script, op) {
			t.Errorf("script does not route %s", op)
		}
	}
}

func TestInstallThenRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bin")
	if _, err := Install(dir, "shimux"); err != nil {
		t.Fatalf("install: %v", err)
	}
	if err := Remove(dir); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("dir still present after Remove: %v", err)
	}
}
