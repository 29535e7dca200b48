package wallet

import (
	"context"
	"fmt"
)

// BlockGasInfo is the narrow view of a block's gas accounting the
// gas-limit policy needs.
type BlockGasInfo struct {
	GasLimit uint64
}

// BlockGasProvider is the injected capability the gas-limit policy
// consults for the current block of a zone, per spec.md §4.7. Real
// implementations back this with a JSON-RPC client; the one in
// internal/gasprovider does so with go-ethereum's ethclient.
type BlockGasProvider interface {
	CurrentBlock(ctx context.Context, zone Zone) (*BlockGasInfo, error)
}

// VerifyGasLimit accepts a prepared transaction's estimated gas
// estimatedGas against zone's current block gas limit, enforcing the
// exact 90% contract of spec.md §4.7: accept iff 10*g <= 9*B.
func VerifyGasLimit(ctx context.Context, provider BlockGasProvider, zone Zone, estimatedGas uint64) error {
	if provider == nil {
		return ErrProviderMissing
	}
	block, err := provider.CurrentBlock(ctx, zone)
	if err != nil || block == nil {
		return fmt.Errorf("%w: %v", ErrBlockUnavailable, err)
	}
	if 10*estimatedGas > 9*block.GasLimit {
		return fmt.Errorf("wallet: estimated gas %d exceeds 90%% of block gas limit %d", estimatedGas, block.GasLimit)
	}
	return nil
}
