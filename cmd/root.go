package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dakling/shimux/internal/config"
	"github.com/dakling/shimux/internal/ctlserver"
	"github.com/dakling/shimux/internal/envinject"
	"github.com/dakling/shimux/internal/history"
	"github.com/dakling/shimux/internal/layout"
	"github.com/dakling/shimux/internal/logging"
	"github.com/dakling/shimux/internal/pane"
	"github.com/dakling/shimux/internal/shim"
	"github.com/dakling/shimux/internal/telemetry"
	"github.com/dakling/shimux/internal/term"
	"github.com/dakling/shimux/internal/tui"
)

func SetVersionInfo(version, commit string) {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
	telemetry.Version = version
}

var rootCmd = &cobra.Command{
	Use:   "shimux",
	Short: "Host tmux-style panes for a coding agent",
	Long: `shimux runs a pane dashboard and a control socket. A fake tmux on the
agent's PATH forwards pane operations to the socket, so an agent that
expects a multiplexer gets real PTY panes inside this process instead.`,
}

func init() {
	rootCmd.RunE = runHost
}

func runHost(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog, err := logging.Init(cfg.Debug, rootCmd.Version)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog() //nolint:errcheck

	registry := pane.NewRegistry(spawnPane(cfg))
	defer registry.Close()

	tel, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint: cfg.OTLPEndpoint,
		Headers:  cfg.OTLPHeaders,
	}, func() int64 {
		return int64(len(registry.ListPanes()))
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer tel.Shutdown(context.Background())

	store, err := history.Open(log)
	if err != nil {
		log.Warn("history disabled", "err", err)
	} else {
		defer store.Close()
	}
	registry.SetRecorder(recorder{store: store, metrics: tel.Metrics})

	engine := layout.NewEngine(cfg.MinColumnWidth)

	socket := cfg.Socket
	if socket == "" {
		socket = ctlserver.DefaultSocketPath()
	}

	bin, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve own binary: %w", err)
	}
	shimDir := shim.DefaultDir()
	if _, err := shim.Install(shimDir, bin); err != nil {
		return err
	}
	defer shim.Remove(shimDir) //nolint:errcheck

	injector := &envinject.Injector{ShimDir: shimDir, Socket: socket, Debug: cfg.Debug}

	model := tui.NewModel(registry, engine, tui.Options{
		PreviewLines: cfg.PreviewLines,
		Launch:       buildLauncher(injector, cfg),
		Version:      rootCmd.Version,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	srv := ctlserver.New(registry, programRebalancer{p}, log)
	srv.SetMetrics(tel.Metrics)
	if err := srv.Listen(socket); err != nil {
		return err
	}
	defer srv.Close()

	stopWatch, err := config.Watch(log, func(next *config.Config) {
		p.Send(tui.ConfigMsg{
			MinColumnWidth: next.MinColumnWidth,
			PreviewLines:   next.PreviewLines,
		})
	})
	if err != nil {
		log.Warn("config watch disabled", "err", err)
	} else {
		defer stopWatch()
	}

	log.Info("host started", "socket", socket, "shim", shimDir)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// spawnPane builds the registry's terminal backend.
func spawnPane(cfg *config.Config) pane.SpawnFunc {
	return func(id, name string) (pane.Surface, error) {
		return term.New(term.Options{
			ID:        id,
			Title:     name,
			Command:   cfg.Shell,
			TailLines: cfg.PreviewLines * 4,
		})
	}
}

// buildLauncher starts the agent in the leader terminal with the injected
// environment. Nil when no agent command is configured.
func buildLauncher(inj *envinject.Injector, cfg *config.Config) func() (pane.Surface, error) {
	if cfg.Agent == "" {
		return nil
	}
	return func() (pane.Surface, error) {
		var env []string
		var win *term.Window
		launch := inj.Launch(&envinject.SliceCarrier{Env: &env}, func() error {
			var err error
			win, err = term.New(term.Options{
				ID:        pane.LeaderID,
				Title:     "agent",
				Command:   cfg.Agent,
				Env:       env,
				TailLines: cfg.PreviewLines * 4,
			})
			return err
		})
		if err := launch(); err != nil {
			return nil, fmt.Errorf("launch agent: %w", err)
		}
		return win, nil
	}
}

// programRebalancer forwards layout changes onto the program goroutine,
// which owns the engine.
type programRebalancer struct {
	p *tea.Program
}

func (r programRebalancer) Rebalance([]string) {
	r.p.Send(tui.RebalanceMsg{})
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
