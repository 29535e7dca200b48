package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dominant-strategies/qi-wallet-sdk/internal/wallet"
	"github.com/spf13/cobra"
)

// utxoFixture is the on-disk JSON shape for the --utxos fixture file: a
// flat list of denomination indices, since the selector's arithmetic
// never inspects anything else about a UTXO.
type utxoFixture struct {
	Denominations []int `json:"denominations"`
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Run the fewest-inputs UTXO selector against a JSON fixture",
	Long: `Read a JSON fixture of available UTXO denominations, perform a
fewest-inputs selection for --target at --fee, and print the resulting
selection plan (inputs used, spend outputs, change outputs).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		utxoPath, _ := cmd.Flags().GetString("utxos")
		target, _ := cmd.Flags().GetInt64("target")
		fee, _ := cmd.Flags().GetUint64("fee")

		raw, err := os.ReadFile(utxoPath)
		if err != nil {
			return fmt.Errorf("failed to read UTXO fixture: %w", err)
		}
		var fixture utxoFixture
		if err := json.Unmarshal(raw, &fixture); err != nil {
			return fmt.Errorf("failed to parse UTXO fixture: %w", err)
		}

		pool := make([]wallet.UTXO, len(fixture.Denominations))
		for i, d := range fixture.Denominations {
			pool[i] = wallet.UTXO{Denomination: d}
		}

		selector := wallet.NewSelector(pool)
		result, err := selector.PerformSelection(target, fee)
		if err != nil {
			return fmt.Errorf("selection failed: %w", err)
		}

		fmt.Println(result)
		fmt.Printf("implied fee: %d\n", selector.CurrentFee())
		return nil
	},
}

func init() {
	selectCmd.Flags().String("utxos", "", "Path to a JSON UTXO fixture ({\"denominations\":[...]}) (required)")
	selectCmd.Flags().Int64("target", 0, "Spend target, in qit (required)")
	selectCmd.Flags().Uint64("fee", 0, "Initial fee, in qit")
	selectCmd.MarkFlagRequired("utxos")
	selectCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(selectCmd)
}
