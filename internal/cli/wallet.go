package cli

import (
	"fmt"

	"github.com/dominant-strategies/qi-wallet-sdk/internal/wallet"
	"github.com/spf13/cobra"
)

// walletFromFlags builds a QiHDWallet from the --mnemonic flag shared by
// every subcommand that needs a live wallet instance. The CLI is a
// demonstration binary, not a key-custody service: it takes the mnemonic
// on each invocation rather than persisting a session.
func walletFromFlags(cmd *cobra.Command) (*wallet.QiHDWallet, error) {
	mnemonic, _ := cmd.Flags().GetString("mnemonic")
	if mnemonic == "" {
		return nil, fmt.Errorf("mnemonic phrase is required")
	}
	w, err := wallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet from mnemonic: %w", err)
	}
	return w, nil
}

func addMnemonicFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("mnemonic", "m", "", "Mnemonic phrase (required)")
	cmd.MarkFlagRequired("mnemonic")
}
