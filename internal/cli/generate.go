package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new mnemonic phrase",
	Long: `Generate a new cryptographically secure mnemonic phrase that can be used
to create a Qi HD wallet.

The mnemonic follows the BIP-39 standard and can be used to deterministically
generate the wallet's root node.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bits, _ := cmd.Flags().GetInt("bits")

		if bits != 128 && bits != 160 && bits != 192 && bits != 224 && bits != 256 {
			return fmt.Errorf("invalid entropy bits: %d (must be 128, 160, 192, 224, or 256)", bits)
		}

		entropy, err := bip39.NewEntropy(bits)
		if err != nil {
			return fmt.Errorf("failed to generate entropy: %w", err)
		}
		mnemonic, err := bip39.NewMnemonic(entropy)
		if err != nil {
			return fmt.Errorf("failed to generate mnemonic: %w", err)
		}

		fmt.Printf("Generated mnemonic phrase:\n%s\n", mnemonic)
		fmt.Printf("\nEntropy: %d bits\n", bits)
		fmt.Printf("Words: %d\n", len(strings.Fields(mnemonic)))

		fmt.Printf("\nSECURITY WARNING:\n")
		fmt.Printf("Store this mnemonic phrase safely and securely.\n")
		fmt.Printf("Anyone with access to this phrase can control the wallet's funds.\n")

		return nil
	},
}

func init() {
	generateCmd.Flags().IntP("bits", "b", 256, "Entropy bits (128, 160, 192, 224, or 256)")
	rootCmd.AddCommand(generateCmd)
}
