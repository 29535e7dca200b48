package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil/hdkeychain"
	"golang.org/x/crypto/sha3"
)

// HardenedOffset is added to a child index to request hardened
// derivation, per BIP-32.
const HardenedOffset = uint32(1) << 31

// node wraps a btcutil BIP-32 extended key and adapts it to the
// Keccak-256 addressing scheme the Qi ledger shares with its Quai
// account-based sibling (the same scheme Ethereum-family chains use).
//
// A node is immutable once constructed; deriveChild always returns a new
// node rather than mutating the receiver, so nodes are safe to share
// across sub-wallets.
type node struct {
	key   *hdkeychain.ExtendedKey
	index uint32
}

// newRootNode builds the root node of the derivation tree from a BIP-39
// seed. The derivation helpers take this root itself and descend from
// it: deriveBip44Change along m/44'/coinType'/account'/change, and
// derivePaymentCodePrivate to m/account'.
func newRootNode(seed []byte) (*node, error) {
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("wallet: create master key: %w", err)
	}
	return &node{key: key}, nil
}

// deriveChild descends one level. Indices >= HardenedOffset request
// hardened derivation.
func (n *node) deriveChild(i uint32) (*node, error) {
	child, err := n.key.Child(i)
	if err != nil {
		return nil, fmt.Errorf("wallet: derive child %d: %w", i, err)
	}
	return &node{key: child, index: i}, nil
}

// publicKeyCompressed returns the 33-byte compressed SEC1 public key.
func (n *node) publicKeyCompressed() ([]byte, error) {
	pub, err := n.key.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("wallet: derive public key: %w", err)
	}
	return pub.SerializeCompressed(), nil
}

// chainCode returns the node's 32-byte BIP-32 chain code.
func (n *node) chainCode() []byte {
	return n.key.ChainCode()
}

// address derives the 20-byte Qi/Quai address of this node: the last 20
// bytes of Keccak-256 of the uncompressed public key, minus its leading
// 0x04 prefix byte.
func (n *node) address() ([20]byte, error) {
	pub, err := n.key.ECPubKey()
	if err != nil {
		return [20]byte{}, fmt.Errorf("wallet: derive public key: %w", err)
	}
	uncompressed := pub.SerializeUncompressed() // 0x04 || X || Y, 65 bytes
	hash := keccak256(uncompressed[1:])

	var addr [20]byte
	copy(addr[:], hash[12:])
	return addr, nil
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
