package telemetry

import (
	"context"
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{name: "empty", raw: "", want: map[string]string{}},
		{
			name: "single pair",
			raw:  "Authorization=Basic abc123",
			want: map[string]string{"Authorization": "Basic abc123"},
		},
		{
			name: "multiple pairs with spaces",
			raw:  "a=1, b=2",
			want: map[string]string{"a": "1", "b": "2"},
		},
		{
			name: "value containing equals",
			raw:  "token=x=y",
			want: map[string]string{"token": "x=y"},
		},
		{name: "missing key dropped", raw: "=value", want: map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseHeaders(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseHeaders(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestInitWithoutEndpointIsNoOp(t *testing.T) {
	tel, err := Init(context.Background(), Config{}, func() int64 { return 0 })
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer tel.Shutdown(context.Background())

	// Instruments must be usable even when nothing exports.
	tel.Metrics.RecordCall(context.Background(), "list_panes")
	tel.Metrics.RecordPaneEvent(context.Background(), "created")

	var nilMetrics *Metrics
	nilMetrics.RecordCall(context.Background(), "noop")
}
