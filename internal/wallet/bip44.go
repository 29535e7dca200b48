package wallet

import "fmt"

// MaxDerivationAttempts is the hard safety bound on forward child-index
// search, for both the BIP-44 and BIP-47 stealth-address search paths
// (subWallet.searchFrom). The expected success distance is
// O(number_of_zones * 2).
const MaxDerivationAttempts = 10_000_000

// Bip44Purpose is the hardened purpose-level index BIP-43 reserves for
// BIP-44 style derivation.
const Bip44Purpose = uint32(44)

// deriveBip44Change returns the change-level node m/44'/coinType'/account'/change
// for a BIP-44 external (change=0) or internal/change (change=1) branch.
func deriveBip44Change(root *node, coinType CoinType, account uint32, change uint32) (*node, error) {
	purposeNode, err := root.deriveChild(Bip44Purpose + HardenedOffset)
	if err != nil {
		return nil, fmt.Errorf("wallet: derive purpose node: %w", err)
	}
	coinTypeNode, err := purposeNode.deriveChild(uint32(coinType) + HardenedOffset)
	if err != nil {
		return nil, fmt.Errorf("wallet: derive coin-type node: %w", err)
	}
	accountNode, err := coinTypeNode.deriveChild(account + HardenedOffset)
	if err != nil {
		return nil, fmt.Errorf("wallet: derive account node: %w", err)
	}
	changeNode, err := accountNode.deriveChild(change)
	if err != nil {
		return nil, fmt.Errorf("wallet: derive change node: %w", err)
	}
	return changeNode, nil
}
