// Package logging sets up the process-wide slog logger. Output goes to a
// rotated file under the state dir: the TUI owns the terminal, so nothing
// may write to stderr while the host runs.
package logging

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Init builds the logger, installs it as the slog default, and returns it
// with a close function for the underlying file.
func Init(debug bool, version string) (*slog.Logger, func() error, error) {
	dir, err := stateDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}

	sink := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "shimux.log"),
		MaxSize:    10, // MB
		MaxBackups: 3,
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(sink, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "shimux"),
		slog.String("version", version),
		slog.Int("pid", os.Getpid()),
	)
	slog.SetDefault(logger)
	return logger, sink.Close, nil
}

func stateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, "shimux"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "shimux"), nil
}
