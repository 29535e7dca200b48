package cli

import (
	"fmt"
	"strings"

	"github.com/dominant-strategies/qi-wallet-sdk/internal/wallet"
)

// parseZone resolves a zone flag value (e.g. "cyprus1") to a wallet.Zone,
// matching case-insensitively against the known zone set.
func parseZone(s string) (wallet.Zone, error) {
	for _, z := range wallet.AllZones() {
		if strings.EqualFold(z.String(), s) {
			return z, nil
		}
	}
	return 0, fmt.Errorf("unknown zone %q", s)
}
