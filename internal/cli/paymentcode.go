package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var paymentCodeCmd = &cobra.Command{
	Use:   "paymentcode",
	Short: "Print this wallet's BIP-47-style payment code",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := walletFromFlags(cmd)
		if err != nil {
			return err
		}
		account, _ := cmd.Flags().GetUint32("account")

		code, err := w.GetPaymentCode(account)
		if err != nil {
			return fmt.Errorf("failed to derive payment code: %w", err)
		}
		fmt.Println(code)
		return nil
	},
}

func init() {
	addMnemonicFlag(paymentCodeCmd)
	paymentCodeCmd.Flags().Uint32P("account", "a", 0, "Account index")
	rootCmd.AddCommand(paymentCodeCmd)
}
