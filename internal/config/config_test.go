package config

import "testing"

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.MinColumnWidth != 40 {
		t.Errorf("MinColumnWidth = %d, want 40", cfg.MinColumnWidth)
	}
	if cfg.PreviewLines != 12 {
		t.Errorf("PreviewLines = %d, want 12", cfg.PreviewLines)
	}
	if cfg.Shell == "" {
		t.Error("Shell is empty")
	}
	if cfg.Debug {
		t.Error("Debug should default to off")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHIMUX_MIN_COLUMN_WIDTH", "55")
	t.Setenv("SHIMUX_DEBUG", "1")
	t.Setenv("SHIMUX_SOCKET", "/tmp/ctl.sock")
	t.Setenv("SHIMUX_OTLP_ENDPOINT", "localhost:4318")

	cfg := Default()
	cfg.applyEnv()

	if cfg.MinColumnWidth != 55 {
		t.Errorf("MinColumnWidth = %d, want 55", cfg.MinColumnWidth)
	}
	if !cfg.Debug {
		t.Error("Debug not enabled from env")
	}
	if cfg.Socket != "/tmp/ctl.sock" {
		t.Errorf("Socket = %q", cfg.Socket)
	}
	if cfg.OTLPEndpoint != "localhost:4318" {
		t.Errorf("OTLPEndpoint = %q", cfg.OTLPEndpoint)
	}
}

func TestEnvOverridesIgnoreMalformedValues(t *testing.T) {
	t.Setenv("SHIMUX_MIN_COLUMN_WIDTH", "not-a-number")
	t.Setenv("SHIMUX_PREVIEW_LINES", "-3")

	cfg := Default()
	cfg.applyEnv()

	if cfg.MinColumnWidth != 40 {
		t.Errorf("MinColumnWidth = %d, want default 40", cfg.MinColumnWidth)
	}
	if cfg.PreviewLines != 12 {
		t.Errorf("PreviewLines = %d, want default 12", cfg.PreviewLines)
	}
}
