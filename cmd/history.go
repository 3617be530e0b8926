package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dakling/shimux/internal/config"
	"github.com/dakling/shimux/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent pane lifecycle events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = cfg.HistoryLimit
		}

		store, err := history.Open(nil)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()

		entries, err := store.ListRecent(limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No recorded events.")
			return nil
		}

		for _, e := range entries {
			name := e.Name
			if name == "" {
				name = "-"
			}
			fmt.Printf("%s  %-10s  %-8s  %s\n", e.At.Format("2006-01-02 15:04:05"), e.PaneID, e.Event, name)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 0, "Maximum events to show")
	rootCmd.AddCommand(historyCmd)
}
