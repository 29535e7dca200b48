package wallet

import "encoding/hex"

// AddressStatus is the lifecycle state of a derived address.
type AddressStatus int

const (
	StatusUnknown AddressStatus = iota
	StatusUsed
	StatusRetired
)

func (s AddressStatus) String() string {
	switch s {
	case StatusUnknown:
		return "UNKNOWN"
	case StatusUsed:
		return "USED"
	case StatusRetired:
		return "RETIRED"
	default:
		return "INVALID"
	}
}

// DerivationPathTag identifies which derivation scheme produced an
// address: the two fixed BIP-44 branches, or a BIP-47 channel keyed by
// the counterparty's payment code string. This is the typed internal
// form of the overloaded derivationPath string field from spec.md §3,
// per the REDESIGN FLAGS in spec.md §9.
type DerivationPathTag struct {
	Kind         DerivationKind
	PaymentCode  string // populated only when Kind == DerivationBip47
}

type DerivationKind int

const (
	DerivationBip44External DerivationKind = iota
	DerivationBip44Change
	DerivationBip47
)

const (
	bip44ExternalTag = "BIP44:external"
	bip44ChangeTag   = "BIP44:change"
)

// String renders the legacy wire form used by QiAddressInfo.derivationPath.
func (t DerivationPathTag) String() string {
	switch t.Kind {
	case DerivationBip44External:
		return bip44ExternalTag
	case DerivationBip44Change:
		return bip44ChangeTag
	case DerivationBip47:
		return t.PaymentCode
	default:
		return ""
	}
}

// parseDerivationPathTag dispatches a wire-form string back to its typed
// tag, per spec.md §4.5 deserialize step (d).
func parseDerivationPathTag(s string) DerivationPathTag {
	switch s {
	case bip44ExternalTag:
		return DerivationPathTag{Kind: DerivationBip44External}
	case bip44ChangeTag:
		return DerivationPathTag{Kind: DerivationBip44Change}
	default:
		return DerivationPathTag{Kind: DerivationBip47, PaymentCode: s}
	}
}

// BlockRef is an opaque pointer to the block a scan last observed an
// address at. The core never inspects its fields; they are preserved
// verbatim through serialization.
type BlockRef struct {
	Hash   string `json:"hash"`
	Number uint64 `json:"number"`
}

// QiAddressInfo is the durable record for one derived address, per
// spec.md §3.
type QiAddressInfo struct {
	Address         [20]byte          `json:"-"`
	PubKey          []byte            `json:"-"`
	Index           uint32            `json:"index"`
	Account         uint32            `json:"account"`
	Zone            Zone              `json:"-"`
	Change          bool              `json:"change"`
	Status          AddressStatus     `json:"-"`
	DerivationPath  DerivationPathTag `json:"-"`
	LastSyncedBlock *BlockRef         `json:"lastSyncedBlock,omitempty"`
}

// AddressHex returns the 0x-prefixed hex form of the address.
func (a QiAddressInfo) AddressHex() string {
	return "0x" + hex.EncodeToString(a.Address[:])
}

// PubKeyHex returns the hex form of the 33-byte compressed public key.
func (a QiAddressInfo) PubKeyHex() string {
	return hex.EncodeToString(a.PubKey)
}
