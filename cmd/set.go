package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dakling/shimux/internal/ctlserver"
)

var setCmd = &cobra.Command{
	Use:   "set <pane-id>",
	Short: "Set pane presentation (title, border color)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		color, _ := cmd.Flags().GetString("color")
		if title == "" && color == "" {
			return fmt.Errorf("specify -t/--title or -c/--color")
		}

		flag, _ := cmd.Flags().GetString("socket")
		socket, err := resolveSocket(flag)
		if err != nil {
			return err
		}

		if _, err := ctlserver.Call(socket, ctlserver.OpSetPaneInfo, args[0], color, title); err != nil {
			return fmt.Errorf("failed to set pane info: %w", err)
		}
		return nil
	},
}

func init() {
	setCmd.Flags().StringP("title", "t", "", "Pane title")
	setCmd.Flags().StringP("color", "c", "", "Border accent color")
	setCmd.Flags().String("socket", "", "Control socket path (default $SHIMUX_SOCKET)")
	rootCmd.AddCommand(setCmd)
}
