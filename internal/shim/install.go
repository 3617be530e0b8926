// Package shim installs the fake tmux executable that intercepts the coding
// agent's multiplexer invocations. The script lives in a per-process
// directory that the environment injector prepends to PATH, so the agent
// resolves it before any real tmux.
package shim

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir returns the per-process shim directory, under the user runtime
// dir when available.
func DefaultDir() string {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "shimux", fmt.Sprintf("bin-%d", os.Getpid()))
}

// Install writes the tmux shim into dir, pointing it at the given shimux
// binary for control calls. It returns the path of the installed script.
func Install(dir, shimuxBin string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("shim: create dir: %w", err)
	}
	script := strings.ReplaceAll(tmuxScript, "{{BIN}}", shimuxBin)
	path := filepath.Join(dir, "tmux")
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil {
		return "", fmt.Errorf("shim: write script: %w", err)
	}
	return path, nil
}

// Remove deletes the shim directory. Called at host shutdown.
func Remove(dir string) error {
	return os.RemoveAll(dir)
}

// tmuxScript translates the subset of tmux commands the agent issues into
// control calls. Unknown commands exit zero so capability probes do not
// derail the agent. Replies that are plain acknowledgements are silenced to
// match real tmux output.
const tmuxScript = `#!/bin/sh
SHIMUX_BIN='{{BIN}}'

cmd="$1"
[ $# -gt 0 ] && shift

case "$cmd" in
has-session)
    name=""
    while [ $# -gt 0 ]; do
        case "$1" in
        -t) name="$2"; shift 2 ;;
        *) shift ;;
        esac
    done
    out=$("$SHIMUX_BIN" call has_session "$name") || exit 1
    [ "$out" = "1" ]
    ;;
new-session)
    name=""
    while [ $# -gt 0 ]; do
        case "$1" in
        -s) name="$2"; shift 2 ;;
        *) shift ;;
        esac
    done
    "$SHIMUX_BIN" call register_session "$name" >/dev/null
    ;;
split-window|new-window)
    name="pane"
    while [ $# -gt 0 ]; do
        case "$1" in
        -n) name="$2"; shift 2 ;;
        -t|-F|-e|-c) shift 2 ;;
        -*) shift ;;
        *) break ;;
        esac
    done
    "$SHIMUX_BIN" call create_pane "$name"
    ;;
send-keys)
    target=""
    while [ $# -gt 0 ]; do
        case "$1" in
        -t) target="$2"; shift 2 ;;
        -*) shift ;;
        *) break ;;
        esac
    done
    if [ $# -eq 1 ] && [ "$1" = "C-c" ]; then
        "$SHIMUX_BIN" call send_interrupt "$target" >/dev/null
        exit $?
    fi
    text=""
    for word in "$@"; do
        [ "$word" = "Enter" ] && continue
        if [ -z "$text" ]; then text="$word"; else text="$text $word"; fi
    done
    "$SHIMUX_BIN" call send_keys "$target" "$text" >/dev/null
    ;;
kill-pane)
    target=""
    while [ $# -gt 0 ]; do
        case "$1" in
        -t) target="$2"; shift 2 ;;
        *) shift ;;
        esac
    done
    "$SHIMUX_BIN" call kill_pane "$target" >/dev/null
    ;;
list-panes)
    "$SHIMUX_BIN" call list_panes
    ;;
select-pane)
    target="" title="" style=""
    while [ $# -gt 0 ]; do
        case "$1" in
        -t) target="$2"; shift 2 ;;
        -T) title="$2"; shift 2 ;;
        -P) style="$2"; shift 2 ;;
        *) shift ;;
        esac
    done
    "$SHIMUX_BIN" call set_pane_info "$target" "$style" "$title" >/dev/null
    ;;
*)
    exit 0
    ;;
esac
`
