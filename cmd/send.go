package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dakling/shimux/internal/ctlserver"
)

var sendCmd = &cobra.Command{
	Use:   "send <pane-id> <text...>",
	Short: "Send a line of input to a pane",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flag, _ := cmd.Flags().GetString("socket")
		socket, err := resolveSocket(flag)
		if err != nil {
			return err
		}

		interrupt, _ := cmd.Flags().GetBool("interrupt")
		if interrupt {
			_, err = ctlserver.Call(socket, ctlserver.OpSendInterrupt, args[0])
			return err
		}
		if len(args) < 2 {
			return cmd.Usage()
		}

		text := strings.Join(args[1:], " ")
		_, err = ctlserver.Call(socket, ctlserver.OpSendKeys, args[0], text)
		return err
	},
}

func init() {
	sendCmd.Flags().String("socket", "", "Control socket path (default $SHIMUX_SOCKET)")
	sendCmd.Flags().BoolP("interrupt", "i", false, "Send an interrupt instead of text")
	rootCmd.AddCommand(sendCmd)
}
