package wallet

import "errors"

// Sentinel errors surfaced by the Qi HD wallet core and the coin selector.
// Callers should compare with errors.Is; wrapping with fmt.Errorf("...: %w", ErrX)
// at call boundaries is expected and preserves Is-matching.
var (
	// Coin selector preconditions.
	ErrTargetNonPositive = errors.New("wallet: selection target must be positive")
	ErrNoUTXOs           = errors.New("wallet: no UTXOs available for selection")
	ErrInsufficientFunds = errors.New("wallet: insufficient funds for target and fee")

	// Derivation.
	ErrDerivationExhausted = errors.New("wallet: derivation search exceeded maximum attempts")
	ErrIndexInUse          = errors.New("wallet: address index already in use")
	ErrInvalidZone         = errors.New("wallet: zone not in the known zone set")

	// Payment codes.
	ErrInvalidPaymentCode = errors.New("wallet: invalid payment code")

	// Serialization.
	ErrImportMismatch = errors.New("wallet: re-derived address does not match serialized record")

	// Gas-limit policy.
	ErrProviderMissing  = errors.New("wallet: no gas provider attached")
	ErrBlockUnavailable = errors.New("wallet: current block unavailable")

	// Transaction hash construction.
	ErrUnsupportedCrossLedger = errors.New("wallet: cross-shard cross-ledger transaction unsupported")
)
