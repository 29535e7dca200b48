package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tyler-smith/go-bip39"
)

var walletLog = logrus.WithField("component", "wallet.facade")

// channel is the pair of sub-wallets a single opened payment code
// produces (spec.md §3, "payment channel"): a self-receive sub-wallet
// (addresses we can spend) and a counterparty-send sub-wallet
// (addresses we pay into). Both hold the same paymentCode string and
// share the facade's PaymentCodePrivate handle, never a pointer to one
// another (spec.md §9, cyclic-reference note).
type channel struct {
	code string
	self *subWallet
	send *subWallet
}

// QiHDWallet is the facade aggregating the BIP-44 and BIP-47 sub-wallets
// for a single mnemonic, per spec.md §4.5.
type QiHDWallet struct {
	mu sync.RWMutex

	mnemonic string
	root     *node

	external *subWallet
	change   *subWallet

	channelOrder []string
	channels     map[string]*channel

	// privateCodes caches the derived PaymentCodePrivate per account, so
	// repeated getPaymentCode/openChannel calls for the same account
	// reuse one derivation.
	privateCodes map[uint32]*PaymentCodePrivate
}

// NewFromMnemonic constructs a Qi HD wallet from a BIP-39 mnemonic
// phrase, per spec.md §1 ("the core receives a root node ... outside
// the core" — here the core performs that seed step itself since it is
// the wallet's only entry point).
func NewFromMnemonic(mnemonic string) (*QiHDWallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("wallet: invalid mnemonic phrase")
	}
	seed := bip39.NewSeed(mnemonic, "")
	root, err := newRootNode(seed)
	if err != nil {
		return nil, err
	}
	return newQiHDWallet(mnemonic, root), nil
}

func newQiHDWallet(mnemonic string, root *node) *QiHDWallet {
	return &QiHDWallet{
		mnemonic:     mnemonic,
		root:         root,
		external:     newBip44SubWallet(kindBip44External, root, 0),
		change:       newBip44SubWallet(kindBip44Change, root, 1),
		channels:     make(map[string]*channel),
		privateCodes: make(map[uint32]*PaymentCodePrivate),
	}
}

func (w *QiHDWallet) privateCodeForAccount(account uint32) (*PaymentCodePrivate, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if pc, ok := w.privateCodes[account]; ok {
		return pc, nil
	}
	pc, err := derivePaymentCodePrivate(w.root, account)
	if err != nil {
		return nil, err
	}
	w.privateCodes[account] = pc
	return pc, nil
}

// GetPaymentCode returns the Base58Check-encoded private payment code
// for account, per spec.md §4.5.
func (w *QiHDWallet) GetPaymentCode(account uint32) (string, error) {
	pc, err := w.privateCodeForAccount(account)
	if err != nil {
		return "", err
	}
	return pc.String(), nil
}

// OpenChannel validates code and, if the channel is new, instantiates
// its self-receive and counterparty-send sub-wallets. Idempotent
// (spec.md §4.5, P6): re-opening an already-open channel is a no-op.
func (w *QiHDWallet) OpenChannel(code string) error {
	theirs, err := decodePaymentCode(code)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.channels[code]; exists {
		return nil
	}

	ours, err := w.unlockedPrivateCodeForAccount(0)
	if err != nil {
		return err
	}

	ch := &channel{
		code: code,
		self: newBip47SubWallet(kindBip47Self, ours, theirs, code),
		send: newBip47SubWallet(kindBip47Counterparty, ours, theirs, code),
	}
	w.channels[code] = ch
	w.channelOrder = append(w.channelOrder, code)
	walletLog.WithField("code", code).Debug("payment channel opened")
	return nil
}

// unlockedPrivateCodeForAccount is privateCodeForAccount without its own
// locking, for call sites that already hold w.mu.
func (w *QiHDWallet) unlockedPrivateCodeForAccount(account uint32) (*PaymentCodePrivate, error) {
	if pc, ok := w.privateCodes[account]; ok {
		return pc, nil
	}
	pc, err := derivePaymentCodePrivate(w.root, account)
	if err != nil {
		return nil, err
	}
	w.privateCodes[account] = pc
	return pc, nil
}

// ChannelIsOpen reports whether code has an open payment channel.
func (w *QiHDWallet) ChannelIsOpen(code string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.channels[code]
	return ok
}

func (w *QiHDWallet) channelFor(code string) (*channel, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ch, ok := w.channels[code]
	return ch, ok
}

// GetNextReceiveAddress delegates to the self-receive sub-wallet of the
// channel opened for code.
func (w *QiHDWallet) GetNextReceiveAddress(ctx context.Context, code string, zone Zone) (*QiAddressInfo, error) {
	ch, ok := w.channelFor(code)
	if !ok {
		return nil, fmt.Errorf("wallet: channel not open for payment code")
	}
	return ch.self.getNextAddress(ctx, 0, zone)
}

// GetNextSendAddress delegates to the counterparty-send sub-wallet of
// the channel opened for code.
func (w *QiHDWallet) GetNextSendAddress(ctx context.Context, code string, zone Zone) (*QiAddressInfo, error) {
	ch, ok := w.channelFor(code)
	if !ok {
		return nil, fmt.Errorf("wallet: channel not open for payment code")
	}
	return ch.send.getNextAddress(ctx, 0, zone)
}

// GetNextAddress delegates to the BIP-44 external sub-wallet.
func (w *QiHDWallet) GetNextAddress(ctx context.Context, account uint32, zone Zone) (*QiAddressInfo, error) {
	return w.external.getNextAddress(ctx, account, zone)
}

// GetNextChangeAddress delegates to the BIP-44 change sub-wallet.
func (w *QiHDWallet) GetNextChangeAddress(ctx context.Context, account uint32, zone Zone) (*QiAddressInfo, error) {
	return w.change.getNextAddress(ctx, account, zone)
}

// AddAddress derives directly at (account, change, index), routed to
// the BIP-44 external or change sub-wallet, per spec.md §4.3.
func (w *QiHDWallet) AddAddress(account uint32, index uint32, change bool) (*QiAddressInfo, error) {
	if change {
		return w.change.addAddress(account, index)
	}
	return w.external.addAddress(account, index)
}

// subWalletsInOrder returns every sub-wallet in the facade's fixed
// ordering: BIP-44 external, BIP-44 change, then BIP-47 channels in the
// order they were opened (self-receive before counterparty-send within
// each channel), per spec.md §4.5.
func (w *QiHDWallet) subWalletsInOrder() []*subWallet {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := []*subWallet{w.external, w.change}
	for _, code := range w.channelOrder {
		ch := w.channels[code]
		out = append(out, ch.self, ch.send)
	}
	return out
}

// GetAddressInfo scans all sub-wallets for address, per spec.md §4.5.
func (w *QiHDWallet) GetAddressInfo(address [20]byte) (*QiAddressInfo, bool) {
	for _, sw := range w.subWalletsInOrder() {
		if info, ok := sw.get(address); ok {
			return info, true
		}
	}
	return nil, false
}

// GetAddressesForAccount returns the union view of addresses recorded
// for account, across sub-wallets in facade order.
func (w *QiHDWallet) GetAddressesForAccount(account uint32) []*QiAddressInfo {
	var out []*QiAddressInfo
	for _, sw := range w.subWalletsInOrder() {
		for _, info := range sw.all() {
			if info.Account == account {
				out = append(out, info)
			}
		}
	}
	return out
}

// GetAddressesForZone returns the union view of addresses recorded for
// zone, across sub-wallets in facade order.
func (w *QiHDWallet) GetAddressesForZone(zone Zone) []*QiAddressInfo {
	var out []*QiAddressInfo
	for _, sw := range w.subWalletsInOrder() {
		for _, info := range sw.all() {
			if info.Zone == zone {
				out = append(out, info)
			}
		}
	}
	return out
}

// AllAddresses returns every address recorded in the wallet, in facade
// order — the view spec.md I5 requires to equal the union of sub-wallet
// address maps.
func (w *QiHDWallet) AllAddresses() []*QiAddressInfo {
	var out []*QiAddressInfo
	for _, sw := range w.subWalletsInOrder() {
		out = append(out, sw.all()...)
	}
	return out
}

// ApplyAddressStatus applies a scan/sync status transition to address,
// wherever it is recorded. It is the narrow surface the scan/sync
// collaborator (spec.md §5) uses to report UNKNOWN->USED->RETIRED.
func (w *QiHDWallet) ApplyAddressStatus(address [20]byte, status AddressStatus) error {
	for _, sw := range w.subWalletsInOrder() {
		if _, ok := sw.get(address); ok {
			return sw.applyStatus(address, status)
		}
	}
	return fmt.Errorf("wallet: address not recorded in any sub-wallet")
}
