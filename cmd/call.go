package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dakling/shimux/internal/ctlserver"
)

var callCmd = &cobra.Command{
	Use:   "call <op> [args...]",
	Short: "Issue a raw control operation against a running host",
	Long: `call speaks the control protocol directly. The tmux shim uses it for
every forwarded operation; it is also handy for debugging a session.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flag, _ := cmd.Flags().GetString("socket")
		socket, err := resolveSocket(flag)
		if err != nil {
			return err
		}

		reply, err := ctlserver.Call(socket, args[0], args[1:]...)
		if err != nil {
			return err
		}
		if reply != "" {
			fmt.Println(reply)
		}
		return nil
	},
}

func init() {
	callCmd.Flags().String("socket", "", "Control socket path (default $SHIMUX_SOCKET)")
	rootCmd.AddCommand(callCmd)
}
