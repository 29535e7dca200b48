package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

var subWalletLog = logrus.WithField("component", "wallet.subwallet")

// subWalletKind distinguishes the four flavors of sub-wallet spec.md §9
// asks to be modeled as a closed tagged variant rather than a class
// hierarchy.
type subWalletKind int

const (
	kindBip44External subWalletKind = iota
	kindBip44Change
	kindBip47Self
	kindBip47Counterparty
)

// defaultGapLimit is the gap-limit policy default for Qi sub-wallets
// (spec.md §3).
const defaultGapLimit = 5

type lastIndexKey struct {
	zone    Zone
	account uint32
}

type addressKey struct {
	account uint32
	index   uint32
}

// subWallet exclusively owns one address map and one lastIndex cursor
// map, per spec.md §9 ("each sub-wallet exclusively owns its address
// map and cursor; the facade holds sub-wallets ... never shared mutable
// state"). Derivation itself is dispatched on kind.
type subWallet struct {
	kind     subWalletKind
	gapLimit int

	mu        sync.RWMutex
	order     [][20]byte
	addresses map[[20]byte]*QiAddressInfo
	byIndex   map[addressKey][20]byte
	lastIndex map[lastIndexKey]int64

	// BIP-44 derivation inputs.
	root        *node
	changeFlag  uint32
	changeNodes map[uint32]*node

	// BIP-47 derivation inputs: a shared, immutable handle to our own
	// private code plus the counterparty's decoded public code, per
	// spec.md §9's "shared handle, not cyclic reference" guidance.
	ours         *PaymentCodePrivate
	counterparty *PaymentCodePublic
	paymentCode  string
}

func newBip44SubWallet(kind subWalletKind, root *node, changeFlag uint32) *subWallet {
	return &subWallet{
		kind:        kind,
		gapLimit:    defaultGapLimit,
		addresses:   make(map[[20]byte]*QiAddressInfo),
		byIndex:     make(map[addressKey][20]byte),
		lastIndex:   make(map[lastIndexKey]int64),
		root:        root,
		changeFlag:  changeFlag,
		changeNodes: make(map[uint32]*node),
	}
}

func newBip47SubWallet(kind subWalletKind, ours *PaymentCodePrivate, counterparty *PaymentCodePublic, code string) *subWallet {
	return &subWallet{
		kind:         kind,
		gapLimit:     defaultGapLimit,
		addresses:    make(map[[20]byte]*QiAddressInfo),
		byIndex:      make(map[addressKey][20]byte),
		lastIndex:    make(map[lastIndexKey]int64),
		ours:         ours,
		counterparty: counterparty,
		paymentCode:  code,
	}
}

func (w *subWallet) derivationTag() DerivationPathTag {
	switch w.kind {
	case kindBip44External:
		return DerivationPathTag{Kind: DerivationBip44External}
	case kindBip44Change:
		return DerivationPathTag{Kind: DerivationBip44Change}
	default:
		return DerivationPathTag{Kind: DerivationBip47, PaymentCode: w.paymentCode}
	}
}

func (w *subWallet) isChange() bool {
	return w.kind == kindBip44Change
}

// changeNode returns (creating if needed) the m/44'/969'/account'/change
// node for a BIP-44 sub-wallet.
func (w *subWallet) changeNode(account uint32) (*node, error) {
	if n, ok := w.changeNodes[account]; ok {
		return n, nil
	}
	n, err := deriveBip44Change(w.root, CoinTypeQi, account, w.changeFlag)
	if err != nil {
		return nil, err
	}
	w.changeNodes[account] = n
	return n, nil
}

// deriveAt derives the address and compressed public key at (account,
// index) according to this sub-wallet's kind, without touching any
// stored state. account is ignored for the two BIP-47 kinds.
func (w *subWallet) deriveAt(account uint32, index uint32) ([20]byte, []byte, error) {
	switch w.kind {
	case kindBip44External, kindBip44Change:
		cn, err := w.changeNode(account)
		if err != nil {
			return [20]byte{}, nil, err
		}
		leaf, err := cn.deriveChild(index)
		if err != nil {
			return [20]byte{}, nil, err
		}
		addr, err := leaf.address()
		if err != nil {
			return [20]byte{}, nil, err
		}
		pub, err := leaf.publicKeyCompressed()
		if err != nil {
			return [20]byte{}, nil, err
		}
		return addr, pub, nil
	case kindBip47Self:
		return deriveReceiveAddress(w.ours, w.counterparty, index)
	case kindBip47Counterparty:
		return deriveSendAddress(w.ours, w.counterparty, index)
	default:
		return [20]byte{}, nil, fmt.Errorf("wallet: unknown sub-wallet kind %d", w.kind)
	}
}

// searchFrom walks index forward from startIndex, returning the first
// zone-valid, ledger-valid address, honoring MaxDerivationAttempts.
func (w *subWallet) searchFrom(ctx context.Context, account uint32, startIndex uint32, zone Zone) (uint32, [20]byte, []byte, error) {
	for attempt := 0; attempt < MaxDerivationAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return 0, [20]byte{}, nil, fmt.Errorf("wallet: derivation canceled: %w", ctx.Err())
		default:
		}
		i := startIndex + uint32(attempt)
		if i < startIndex {
			break // uint32 wraparound guard
		}
		addr, pub, err := w.deriveAt(account, i)
		if err != nil {
			return 0, [20]byte{}, nil, err
		}
		if IsValidAddressForZone(CoinTypeQi, addr, zone) {
			return i, addr, pub, nil
		}
	}
	subWalletLog.WithFields(logrus.Fields{"account": account, "zone": zone}).Warn("derivation exhausted")
	return 0, [20]byte{}, nil, ErrDerivationExhausted
}

// getNextAddress implements spec.md §4.3's per-sub-wallet operation:
// compute start = lastIndex+1, search, store, advance the cursor. The
// reserve -> derive -> validate -> commit sequence runs under w.mu as
// one critical section (spec.md §5).
func (w *subWallet) getNextAddress(ctx context.Context, account uint32, zone Zone) (*QiAddressInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := lastIndexKey{zone: zone, account: account}
	start := uint32(0)
	if last, ok := w.lastIndex[key]; ok {
		start = uint32(last + 1)
	}

	index, addr, pub, err := w.searchFrom(ctx, account, start, zone)
	if err != nil {
		return nil, err
	}

	info := &QiAddressInfo{
		Address:        addr,
		PubKey:         pub,
		Index:          index,
		Account:        account,
		Zone:           zone,
		Change:         w.isChange(),
		Status:         StatusUnknown,
		DerivationPath: w.derivationTag(),
	}
	w.store(info)
	w.lastIndex[key] = int64(index)
	return info, nil
}

// addAddress derives directly at (account, index) with no search, per
// spec.md §4.3, failing ErrIndexInUse on a repeat (account, index)
// within this sub-wallet and ErrInvalidZone if the derived leaf is not
// zone/ledger valid.
func (w *subWallet) addAddress(account uint32, index uint32) (*QiAddressInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addAddressLocked(account, index)
}

func (w *subWallet) addAddressLocked(account uint32, index uint32) (*QiAddressInfo, error) {
	ak := addressKey{account: account, index: index}
	if _, exists := w.byIndex[ak]; exists {
		return nil, ErrIndexInUse
	}

	addr, pub, err := w.deriveAt(account, index)
	if err != nil {
		return nil, err
	}
	zone, ok := zoneOf(addr)
	if !ok || !isQiAddress(addr) {
		return nil, ErrInvalidZone
	}

	info := &QiAddressInfo{
		Address:        addr,
		PubKey:         pub,
		Index:          index,
		Account:        account,
		Zone:           zone,
		Change:         w.isChange(),
		Status:         StatusUnknown,
		DerivationPath: w.derivationTag(),
	}
	w.store(info)

	key := lastIndexKey{zone: zone, account: account}
	if last, ok := w.lastIndex[key]; !ok || int64(index) > last {
		w.lastIndex[key] = int64(index)
	}
	return info, nil
}

// store records info in the address map and insertion-order slice. The
// caller must hold w.mu.
func (w *subWallet) store(info *QiAddressInfo) {
	w.addresses[info.Address] = info
	w.order = append(w.order, info.Address)
	w.byIndex[addressKey{account: info.Account, index: info.Index}] = info.Address
}

func (w *subWallet) get(address [20]byte) (*QiAddressInfo, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	info, ok := w.addresses[address]
	return info, ok
}

// all returns every address record in insertion order.
func (w *subWallet) all() []*QiAddressInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*QiAddressInfo, 0, len(w.order))
	for _, addr := range w.order {
		out = append(out, w.addresses[addr])
	}
	return out
}

// lastIndexFor returns the highest committed index for (zone, account),
// or -1 if none has been recorded — testable property P2.
func (w *subWallet) lastIndexFor(zone Zone, account uint32) int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if v, ok := w.lastIndex[lastIndexKey{zone: zone, account: account}]; ok {
		return v
	}
	return -1
}

// applyStatus atomically updates the lifecycle status of address. It
// does not check the gap limit (the count of consecutive trailing
// UNKNOWN addresses for the address's (zone, account)) and does not
// drive further derivation; it only records the transition. The
// scan/sync collaborator is expected to call this in increasing index
// order.
func (w *subWallet) applyStatus(address [20]byte, status AddressStatus) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	info, ok := w.addresses[address]
	if !ok {
		return fmt.Errorf("wallet: unknown address for status update")
	}
	info.Status = status
	return nil
}
