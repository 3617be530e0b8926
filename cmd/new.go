package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/dakling/shimux/internal/ctlserver"
)

var validName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a pane in a running host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !validName.MatchString(name) {
			return fmt.Errorf("invalid name %q: use only alphanumeric, hyphens, underscores", name)
		}

		flag, _ := cmd.Flags().GetString("socket")
		socket, err := resolveSocket(flag)
		if err != nil {
			return err
		}

		id, err := ctlserver.Call(socket, ctlserver.OpCreatePane, name)
		if err != nil {
			return fmt.Errorf("failed to create pane: %w", err)
		}
		if id == "" {
			return fmt.Errorf("host could not start a terminal for %q", name)
		}

		fmt.Println(id)
		return nil
	},
}

func init() {
	newCmd.Flags().String("socket", "", "Control socket path (default $SHIMUX_SOCKET)")
	rootCmd.AddCommand(newCmd)
}
