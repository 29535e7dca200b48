package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Derive and inspect Qi addresses",
}

var addressNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Derive the next address for an account/zone",
	Long: `Derive the next unused address for --account in --zone.

With --change, derives from the BIP-44 change branch instead of external.
With --code, derives the next self-receive address for the payment
channel with that counterparty's payment code, opening the channel
first if it is not open.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := walletFromFlags(cmd)
		if err != nil {
			return err
		}

		account, _ := cmd.Flags().GetUint32("account")
		zoneStr, _ := cmd.Flags().GetString("zone")
		change, _ := cmd.Flags().GetBool("change")
		code, _ := cmd.Flags().GetString("code")

		zone, err := parseZone(zoneStr)
		if err != nil {
			return err
		}

		ctx := context.Background()
		var info interface {
			AddressHex() string
			PubKeyHex() string
		}

		switch {
		case code != "":
			if !w.ChannelIsOpen(code) {
				if err := w.OpenChannel(code); err != nil {
					return fmt.Errorf("failed to open channel: %w", err)
				}
			}
			addr, err := w.GetNextReceiveAddress(ctx, code, zone)
			if err != nil {
				return fmt.Errorf("failed to derive receive address: %w", err)
			}
			info = addr
		case change:
			addr, err := w.GetNextChangeAddress(ctx, account, zone)
			if err != nil {
				return fmt.Errorf("failed to derive change address: %w", err)
			}
			info = addr
		default:
			addr, err := w.GetNextAddress(ctx, account, zone)
			if err != nil {
				return fmt.Errorf("failed to derive address: %w", err)
			}
			info = addr
		}

		fmt.Printf("Zone:    %s\n", zone)
		fmt.Printf("Address: %s\n", info.AddressHex())
		fmt.Printf("PubKey:  %s\n", info.PubKeyHex())
		return nil
	},
}

func init() {
	addMnemonicFlag(addressNextCmd)
	addressNextCmd.Flags().Uint32P("account", "a", 0, "Account index")
	addressNextCmd.Flags().StringP("zone", "z", "Cyprus1", "Target zone")
	addressNextCmd.Flags().Bool("change", false, "Derive from the change branch instead of external")
	addressNextCmd.Flags().String("code", "", "Counterparty payment code to derive a stealth receive address for")

	addressCmd.AddCommand(addressNextCmd)
	rootCmd.AddCommand(addressCmd)
}
