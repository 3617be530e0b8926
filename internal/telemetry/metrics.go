package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "shimux"

// Metrics holds the metric instruments. All counters are cumulative and safe
// for concurrent use.
type Metrics struct {
	// ControlCalls counts control-surface operations, partitioned by op.
	ControlCalls metric.Int64Counter
	// PaneEvents counts lifecycle transitions, partitioned by event.
	PaneEvents metric.Int64Counter
}

// NewMetrics creates the instruments. Returns no-op instruments when no
// MeterProvider is registered, so it is safe to call unconditionally.
// livePanes, when non-nil, backs an observable gauge of the live pane count.
func NewMetrics(livePanes func() int64) (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.ControlCalls, err = meter.Int64Counter("control.calls",
		metric.WithDescription("Control-surface calls partitioned by operation"))
	if err != nil {
		return nil, err
	}

	m.PaneEvents, err = meter.Int64Counter("pane.events",
		metric.WithDescription("Pane lifecycle events partitioned by kind (created, finished, killed)"))
	if err != nil {
		return nil, err
	}

	if livePanes != nil {
		_, err = meter.Int64ObservableGauge("pane.live",
			metric.WithDescription("Panes whose terminal surface is still attached"),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(livePanes())
				return nil
			}))
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordCall counts one control-surface call.
func (m *Metrics) RecordCall(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.ControlCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// RecordPaneEvent counts one lifecycle transition.
func (m *Metrics) RecordPaneEvent(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.PaneEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("event", kind)))
}
