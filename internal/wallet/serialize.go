package wallet

import (
	"encoding/hex"
	"fmt"
)

// WalletVersion is the current serialization format version, per
// spec.md §6.
const WalletVersion = 1

// AddressBlob is the wire form of a QiAddressInfo: exactly the fields
// listed in spec.md §3, with address/pubkey as hex and zone/status as
// their string names.
type AddressBlob struct {
	Address         string    `json:"address"`
	PubKey          string    `json:"pubKey"`
	Index           uint32    `json:"index"`
	Account         uint32    `json:"account"`
	Zone            string    `json:"zone"`
	Change          bool      `json:"change"`
	Status          string    `json:"status"`
	DerivationPath  string    `json:"derivationPath"`
	LastSyncedBlock *BlockRef `json:"lastSyncedBlock,omitempty"`
}

// WalletBlob is the stable, versioned wallet serialization of spec.md §6.
type WalletBlob struct {
	Version   int           `json:"version"`
	Phrase    string        `json:"phrase"`
	CoinType  uint32        `json:"coinType"`
	Addresses []AddressBlob `json:"addresses"`
	Channels  []string      `json:"channels"`
}

func toAddressBlob(info *QiAddressInfo) AddressBlob {
	return AddressBlob{
		Address:         hex.EncodeToString(info.Address[:]),
		PubKey:          hex.EncodeToString(info.PubKey),
		Index:           info.Index,
		Account:         info.Account,
		Zone:            info.Zone.String(),
		Change:          info.Change,
		Status:          info.Status.String(),
		DerivationPath:  info.DerivationPath.String(),
		LastSyncedBlock: info.LastSyncedBlock,
	}
}

// Serialize renders the wallet to its stable wire form, per spec.md §6
// and §4.5. Order is preserved: addresses follow facade sub-wallet
// order (external, change, then self-receive per channel in open
// order); channels follow open order.
func (w *QiHDWallet) Serialize() (*WalletBlob, error) {
	w.mu.RLock()
	channelOrder := append([]string(nil), w.channelOrder...)
	channelsByCode := make(map[string]*channel, len(w.channels))
	for k, v := range w.channels {
		channelsByCode[k] = v
	}
	w.mu.RUnlock()

	blob := &WalletBlob{
		Version:  WalletVersion,
		Phrase:   w.mnemonic,
		CoinType: uint32(CoinTypeQi),
		Channels: channelOrder,
	}

	for _, info := range w.external.all() {
		blob.Addresses = append(blob.Addresses, toAddressBlob(info))
	}
	for _, info := range w.change.all() {
		blob.Addresses = append(blob.Addresses, toAddressBlob(info))
	}
	for _, code := range channelOrder {
		ch := channelsByCode[code]
		for _, info := range ch.self.all() {
			blob.Addresses = append(blob.Addresses, toAddressBlob(info))
		}
	}

	return blob, nil
}

// Deserialize restores a wallet from blob, per spec.md §4.5:
// verify version/coinType, reconstruct the root from the mnemonic,
// re-open every channel, then replay each address via addAddress,
// asserting the re-derived address/pubKey/zone agree with the
// serialized record.
func Deserialize(blob *WalletBlob) (*QiHDWallet, error) {
	if blob.Version != WalletVersion {
		return nil, fmt.Errorf("wallet: unsupported serialization version %d", blob.Version)
	}
	if blob.CoinType != uint32(CoinTypeQi) {
		return nil, fmt.Errorf("wallet: unsupported coin type %d", blob.CoinType)
	}

	w, err := NewFromMnemonic(blob.Phrase)
	if err != nil {
		return nil, fmt.Errorf("wallet: reconstruct root from phrase: %w", err)
	}

	for _, code := range blob.Channels {
		if err := w.OpenChannel(code); err != nil {
			return nil, fmt.Errorf("wallet: reopen channel: %w", err)
		}
	}

	for _, ab := range blob.Addresses {
		if err := w.replayAddress(ab); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// replayAddress dispatches ab to its sub-wallet by derivation-path tag
// and asserts the re-derived record matches the serialized one.
func (w *QiHDWallet) replayAddress(ab AddressBlob) error {
	tag := parseDerivationPathTag(ab.DerivationPath)

	var sw *subWallet
	switch tag.Kind {
	case DerivationBip44External:
		sw = w.external
	case DerivationBip44Change:
		sw = w.change
	case DerivationBip47:
		ch, ok := w.channelFor(tag.PaymentCode)
		if !ok {
			return fmt.Errorf("wallet: address references unopened channel")
		}
		sw = ch.self
	}

	info, err := sw.addAddress(ab.Account, ab.Index)
	if err != nil {
		return fmt.Errorf("wallet: replay address at index %d: %w", ab.Index, err)
	}

	wantAddr, err := hex.DecodeString(ab.Address)
	if err != nil {
		return fmt.Errorf("%w: malformed address hex", ErrImportMismatch)
	}
	wantPub, err := hex.DecodeString(ab.PubKey)
	if err != nil {
		return fmt.Errorf("%w: malformed pubkey hex", ErrImportMismatch)
	}
	if hex.EncodeToString(info.Address[:]) != hex.EncodeToString(wantAddr) {
		return fmt.Errorf("%w: address differs at index %d", ErrImportMismatch, ab.Index)
	}
	if hex.EncodeToString(info.PubKey) != hex.EncodeToString(wantPub) {
		return fmt.Errorf("%w: pubKey differs at index %d", ErrImportMismatch, ab.Index)
	}
	if info.Zone.String() != ab.Zone {
		return fmt.Errorf("%w: zone differs at index %d", ErrImportMismatch, ab.Index)
	}

	// Status and sync metadata are not re-derived; carry them forward
	// verbatim from the serialized record.
	info.Status = parseStatus(ab.Status)
	info.LastSyncedBlock = ab.LastSyncedBlock
	return nil
}

func parseStatus(s string) AddressStatus {
	switch s {
	case "USED":
		return StatusUsed
	case "RETIRED":
		return StatusRetired
	default:
		return StatusUnknown
	}
}
