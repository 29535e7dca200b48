// Command qiwallet is a thin demonstration CLI over the Qi HD wallet and
// UTXO coin-selection SDK: mnemonic generation, address derivation,
// payment-code exchange, and coin selection against a JSON fixture.
package main

import (
	"fmt"
	"os"

	"github.com/dominant-strategies/qi-wallet-sdk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
