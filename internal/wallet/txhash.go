package wallet

import "fmt"

// ledgerNibble returns the 1-bit-per-side ledger indicator of spec.md
// §6, encoded in its stated literal nibble values: 0xF for the Qi
// (UTXO) ledger, 0x1 for the Quai (account) ledger.
func ledgerNibble(isQi bool) byte {
	if isQi {
		return 0xF
	}
	return 0x1
}

// BuildUTXOHash constructs the 32-byte transaction hash of spec.md §6's
// "Transaction hash construction (UTXO path)": the base Keccak-256 of
// payload, with its first byte overwritten by the origin shard-and-
// ledger mask and its second byte overwritten by the destination's.
//
// originIsQi/destIsQi select the ledger nibble per side; a transaction
// that spans both a shard and a ledger boundary (origin zone != dest
// zone AND origin ledger != dest ledger) is rejected, per
// ErrUnsupportedCrossLedger.
func BuildUTXOHash(payload []byte, originZone, destZone Zone, originIsQi, destIsQi bool) ([32]byte, error) {
	if originZone != destZone && originIsQi != destIsQi {
		return [32]byte{}, ErrUnsupportedCrossLedger
	}

	oz, ok := zoneByte(originZone)
	if !ok {
		return [32]byte{}, fmt.Errorf("wallet: unknown origin zone")
	}
	dz, ok := zoneByte(destZone)
	if !ok {
		return [32]byte{}, fmt.Errorf("wallet: unknown destination zone")
	}

	h := keccak256(payload)
	var out [32]byte
	copy(out[:], h)
	out[0] = (oz & 0xF8) | (ledgerNibble(originIsQi) & 0x0F)
	out[1] = (dz & 0xF8) | (ledgerNibble(destIsQi) & 0x0F)
	return out, nil
}
