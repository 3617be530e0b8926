package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dakling/shimux/internal/history"
	"github.com/dakling/shimux/internal/telemetry"
)

// recorder fans lifecycle events out to the history store and the metric
// counters. Either side may be absent.
type recorder struct {
	store   *history.Store
	metrics *telemetry.Metrics
}

func (r recorder) Record(paneID, name, event string, at time.Time) {
	if r.store != nil {
		r.store.Record(paneID, name, event, at)
	}
	r.metrics.RecordPaneEvent(context.Background(), event)
}

// resolveSocket picks the control socket for client commands: the --socket
// flag, else SHIMUX_SOCKET (set inside agent panes).
func resolveSocket(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("SHIMUX_SOCKET"); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("no control socket: pass --socket or run inside a shimux session")
}
