package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Config holds the host's tunable settings. Precedence is
// environment > config file > defaults.
type Config struct {
	// MinColumnWidth bounds how many viewport columns fit the screen.
	MinColumnWidth int `yaml:"min_column_width"`
	// PreviewLines is the tail window rendered per viewport.
	PreviewLines int `yaml:"preview_lines"`
	// Debug turns on the debug flag injected into spawned sessions.
	Debug bool `yaml:"debug"`
	// Socket overrides the control socket path.
	Socket string `yaml:"socket"`
	// Shell is the command spawned into new panes.
	Shell string `yaml:"shell"`
	// Agent is the command launched into the leader terminal. Empty
	// disables the launch binding.
	Agent string `yaml:"agent"`
	// HistoryLimit caps rows returned by the history command.
	HistoryLimit int `yaml:"history_limit"`
	// OTLPEndpoint enables metric export when set.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	// OTLPHeaders is a comma-separated key=value list sent with exports.
	OTLPHeaders string `yaml:"otlp_headers"`
}

// Default returns the built-in settings.
func Default() *Config {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Config{
		MinColumnWidth: 40,
		PreviewLines:   12,
		Shell:          shell,
		HistoryLimit:   50,
	}
}

// Path returns the config file location under the user config dir.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "shimux", "config.yaml")
}

// Load reads the config from ~/.config/shimux/config.yaml, then applies
// SHIMUX_* environment overrides. A missing file yields the defaults.
func Load() (*Config, error) {
	cfg := Default()

	if path := Path(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays SHIMUX_* variables. Malformed values are ignored so a
// stray export cannot block startup.
func (c *Config) applyEnv() {
	if v := os.Getenv("SHIMUX_MIN_COLUMN_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MinColumnWidth = n
		}
	}
	if v := os.Getenv("SHIMUX_PREVIEW_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PreviewLines = n
		}
	}
	if v := os.Getenv("SHIMUX_DEBUG"); v == "1" || v == "true" {
		c.Debug = true
	}
	if v := os.Getenv("SHIMUX_SOCKET"); v != "" {
		c.Socket = v
	}
	if v := os.Getenv("SHIMUX_SHELL"); v != "" {
		c.Shell = v
	}
	if v := os.Getenv("SHIMUX_AGENT"); v != "" {
		c.Agent = v
	}
	if v := os.Getenv("SHIMUX_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.HistoryLimit = n
		}
	}
	if v := os.Getenv("SHIMUX_OTLP_ENDPOINT"); v != "" {
		c.OTLPEndpoint = v
	}
	if v := os.Getenv("SHIMUX_OTLP_HEADERS"); v != "" {
		c.OTLPHeaders = v
	}
}

// Watch reloads the config whenever the file changes and hands the result to
// onChange. It returns a stop function. Environment overrides still win on
// every reload.
func Watch(log *slog.Logger, onChange func(*Config)) (func(), error) {
	path := Path()
	if path == "" {
		return func() {}, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watcher: %w", err)
	}
	// Watch the directory: editors replace the file, which drops a watch on
	// the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		// No config dir means nothing to watch.
		watcher.Close()
		log.Debug("config watch disabled", "err", err)
		return func() {}, nil
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path || !ev.Op.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				cfg, err := Load()
				if err != nil {
					log.Warn("config reload failed", "err", err)
					continue
				}
				log.Info("config reloaded", "path", path)
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("config watch error", "err", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
