package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Manage BIP-47-style payment channels",
}

var channelOpenCmd = &cobra.Command{
	Use:   "open <code>",
	Short: "Open a payment channel with a counterparty's payment code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := walletFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := w.OpenChannel(args[0]); err != nil {
			return fmt.Errorf("failed to open channel: %w", err)
		}
		fmt.Printf("Channel opened for payment code %s\n", args[0])
		return nil
	},
}

func init() {
	addMnemonicFlag(channelOpenCmd)
	channelCmd.AddCommand(channelOpenCmd)
	rootCmd.AddCommand(channelCmd)
}
