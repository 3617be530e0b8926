package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dakling/shimux/internal/ctlserver"
)

var killCmd = &cobra.Command{
	Use:   "kill <pane-id>",
	Short: "Kill a pane",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flag, _ := cmd.Flags().GetString("socket")
		socket, err := resolveSocket(flag)
		if err != nil {
			return err
		}

		if _, err := ctlserver.Call(socket, ctlserver.OpKillPane, args[0]); err != nil {
			return fmt.Errorf("failed to kill pane: %w", err)
		}
		return nil
	},
}

func init() {
	killCmd.Flags().String("socket", "", "Control socket path (default $SHIMUX_SOCKET)")
	rootCmd.AddCommand(killCmd)
}
