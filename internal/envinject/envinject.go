// Package envinject builds the environment a spawned subagent must see to
// believe it is running inside a real multiplexer session, and wraps the
// session launcher so the variables are merged in exactly once per launch.
package envinject

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

// Variable names are fixed: the shim executables and the external tool's
// multiplexer integration both key off them.
const (
	SessionVar    = "TMUX"      // synthetic session marker
	LeaderPaneVar = "TMUX_PANE" // fixed leader-pane marker
	EnabledVar    = "SHIMUX"
	DebugVar      = "SHIMUX_DEBUG"
	LaunchIDVar   = "SHIMUX_LAUNCH_ID"
	SocketVar     = "SHIMUX_SOCKET"
)

// LeaderPane is the conventional "pane zero" identifier.
const LeaderPane = "%0"

// launchCounter disambiguates concurrent launches within one process.
var launchCounter atomic.Uint64

// Injector computes the variable set for one host instance.
type Injector struct {
	// ShimDir holds the shim executables; it is prepended to PATH.
	ShimDir string
	// Socket is the control endpoint address shim scripts call back into.
	Socket string
	Debug  bool
}

// Vars returns a fresh variable set. The launch tag is unique per call, so
// each launch gets its own set.
func (inj *Injector) Vars() []string {
	debug := "0"
	if inj.Debug {
		debug = "1"
	}
	tag := fmt.Sprintf("%d-%d", os.Getpid(), launchCounter.Add(1))

	return []string{
		"PATH=" + inj.ShimDir + string(os.PathListSeparator) + os.Getenv("PATH"),
		fmt.Sprintf("%s=shimux,%d,0", SessionVar, os.Getpid()),
		LeaderPaneVar + "=" + LeaderPane,
		EnabledVar + "=1",
		DebugVar + "=" + debug,
		LaunchIDVar + "=" + tag,
		SocketVar + "=" + inj.Socket,
	}
}

// EnvironmentCarrier applies an injected variable set to whichever
// environment-propagation mechanism the active terminal backend honors.
// One implementation exists per backend; the caller selects one at
// session-launch time.
type EnvironmentCarrier interface {
	Apply(vars []string)
}

// SliceCarrier merges variables into an environment slice such as
// term.Options.Env. Injected variables replace same-keyed entries.
type SliceCarrier struct {
	Env *[]string
}

func (c *SliceCarrier) Apply(vars []string) {
	if c == nil || c.Env == nil {
		return
	}
	merged := append([]string{}, *c.Env...)
	for _, kv := range vars {
		key, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		replaced := false
		for i, existing := range merged {
			if strings.HasPrefix(existing, key+"=") {
				merged[i] = kv
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, kv)
		}
	}
	*c.Env = merged
}

// LauncherFn starts the subagent session.
type LauncherFn func() error

// Launch decorates real: the returned function applies the injected
// environment through carrier and then calls real exactly once. The merge is
// scoped to that single call and leaks into nothing else.
func (inj *Injector) Launch(carrier EnvironmentCarrier, real LauncherFn) LauncherFn {
	vars := inj.Vars()
	return func() error {
		carrier.Apply(vars)
		return real()
	}
}
