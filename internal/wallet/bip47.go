package wallet

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil/base58"
	"github.com/btcsuite/btcutil/hdkeychain"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PaymentCodeVersion is the leading byte of the Base58Check wire format
// for an exchanged payment code (spec.md §6).
const PaymentCodeVersion byte = 0x47

// PaymentCodePrivate is the capability a wallet holds for payment codes
// it owns: the hardened account node plus the 80-byte payload that gets
// exchanged (in Base58Check form) with counterparties.
type PaymentCodePrivate struct {
	accountNode *node
	payload     [80]byte
}

// PaymentCodePublic is the decoded form of a counterparty's exchanged
// payment code: their account-level (root, unindexed) public key and
// chain code, sufficient to perform BIP-32 public-key-only ("CKDpub")
// child derivation.
type PaymentCodePublic struct {
	pubKey    [33]byte
	chainCode [32]byte
}

// derivePaymentCodePrivate builds the private payment code for account,
// per spec.md §4.4: accountNode = root.deriveChild(account + 2^31).
func derivePaymentCodePrivate(root *node, account uint32) (*PaymentCodePrivate, error) {
	accountNode, err := root.deriveChild(account + HardenedOffset)
	if err != nil {
		return nil, fmt.Errorf("wallet: derive payment-code account node: %w", err)
	}
	pub, err := accountNode.publicKeyCompressed()
	if err != nil {
		return nil, err
	}

	var payload [80]byte
	payload[0] = 0x01
	payload[1] = 0x00
	copy(payload[2:35], pub)
	copy(payload[35:67], accountNode.chainCode())
	// payload[67:80] reserved, left zero.

	return &PaymentCodePrivate{accountNode: accountNode, payload: payload}, nil
}

// String Base58Check-encodes the payment code for exchange with a
// counterparty, per spec.md §6.
func (p *PaymentCodePrivate) String() string {
	return base58.CheckEncode(p.payload[:], PaymentCodeVersion)
}

// Public returns the public view of this payment code, as if it had
// been exchanged and decoded by a counterparty. Useful for tests that
// need both sides of a channel from the same wallet.
func (p *PaymentCodePrivate) Public() (*PaymentCodePublic, error) {
	return decodePaymentCode(p.String())
}

// decodePaymentCode Base58Check-decodes and validates a payment-code
// string, rejecting any version byte other than PaymentCodeVersion or a
// malformed 80-byte payload.
func decodePaymentCode(code string) (*PaymentCodePublic, error) {
	payload, version, err := base58.CheckDecode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPaymentCode, err)
	}
	if version != PaymentCodeVersion {
		return nil, fmt.Errorf("%w: wrong version byte 0x%02x", ErrInvalidPaymentCode, version)
	}
	if len(payload) != 80 {
		return nil, fmt.Errorf("%w: payload length %d", ErrInvalidPaymentCode, len(payload))
	}
	if payload[0] != 0x01 {
		return nil, fmt.Errorf("%w: unsupported payload type 0x%02x", ErrInvalidPaymentCode, payload[0])
	}

	pub := &PaymentCodePublic{}
	copy(pub.pubKey[:], payload[2:35])
	copy(pub.chainCode[:], payload[35:67])
	return pub, nil
}

// publicNode wraps this payment code's root public key and chain code
// as a public-only BIP-32 extended key, so non-hardened CKDpub
// derivation can reuse the hdkeychain child-derivation machinery.
func (p *PaymentCodePublic) publicNode() (*node, error) {
	params := &chaincfg.MainNetParams
	key := hdkeychain.NewExtendedKey(
		params.HDPublicKeyID[:],
		p.pubKey[:],
		p.chainCode[:],
		[]byte{0, 0, 0, 0},
		0,
		0,
		false,
	)
	return &node{key: key}, nil
}

func (p *PaymentCodePublic) rootPubKey() (*secp256k1.PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(p.pubKey[:])
	if err != nil {
		return nil, fmt.Errorf("wallet: parse payment-code public key: %w", err)
	}
	return pub, nil
}

// sharedSecret computes SHA256(ECDH(priv, pub)) — the BIP-47 shared
// secret, as the X coordinate of priv*pub (point multiplication).
func sharedSecret(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey) [32]byte {
	var pubPoint, result secp256k1.JacobianPoint
	pub.AsJacobian(&pubPoint)
	secp256k1.ScalarMultNonConst(&priv.Key, &pubPoint, &result)
	result.ToAffine()

	xBytes := result.X.Bytes()
	return sha256.Sum256(xBytes[:])
}

// offsetPrivateKey returns priv + delta (mod n) as a new private key,
// i.e. the ephemeral stealth spending key on the side that holds priv.
func offsetPrivateKey(priv *secp256k1.PrivateKey, delta [32]byte) *secp256k1.PrivateKey {
	var d secp256k1.ModNScalar
	d.SetBytes(&delta)
	sum := new(secp256k1.ModNScalar).Set(&priv.Key)
	sum.Add(&d)
	return secp256k1.NewPrivateKey(sum)
}

// offsetPublicKey returns pub + delta*G, i.e. the ephemeral stealth
// address point on the side that only holds pub.
func offsetPublicKey(pub *secp256k1.PublicKey, delta [32]byte) *secp256k1.PublicKey {
	var d secp256k1.ModNScalar
	d.SetBytes(&delta)
	deltaPriv := secp256k1.NewPrivateKey(&d)
	deltaPub := deltaPriv.PubKey()

	var p1, p2, sum secp256k1.JacobianPoint
	pub.AsJacobian(&p1)
	deltaPub.AsJacobian(&p2)
	secp256k1.AddNonConst(&p1, &p2, &sum)
	sum.ToAffine()
	return secp256k1.NewPublicKey(&sum.X, &sum.Y)
}

func addressFromPublicKey(pub *secp256k1.PublicKey) [20]byte {
	uncompressed := pub.SerializeUncompressed()
	hash := keccak256(uncompressed[1:])
	var addr [20]byte
	copy(addr[:], hash[12:])
	return addr
}

// deriveSendAddress computes the stealth address a payment from ours to
// the counterparty described by theirs should pay into, at index i. We
// hold the private key for ours but not for theirs, so only the public
// point is produced: pub'_i = their_root_pub + S_i*G.
func deriveSendAddress(ours *PaymentCodePrivate, theirs *PaymentCodePublic, i uint32) ([20]byte, []byte, error) {
	ourChildI, err := ours.accountNode.deriveChild(i)
	if err != nil {
		return [20]byte{}, nil, err
	}
	ourPrivI, err := ourChildI.key.ECPrivKey()
	if err != nil {
		return [20]byte{}, nil, err
	}
	theirRootPub, err := theirs.rootPubKey()
	if err != nil {
		return [20]byte{}, nil, err
	}

	s := sharedSecret(ourPrivI, theirRootPub)
	ephemeralPub := offsetPublicKey(theirRootPub, s)
	return addressFromPublicKey(ephemeralPub), ephemeralPub.SerializeCompressed(), nil
}

// deriveReceiveAddress computes the stealth address we can spend at
// index i, given our own (root, unindexed) private code and the
// counterparty's public code: priv'_i = our_root_priv + S_i, where
// S_i = SHA256(ECDH(our_root_priv, their_pub_i)) and their_pub_i is
// derived from the counterparty's public code via CKDpub.
func deriveReceiveAddress(ours *PaymentCodePrivate, theirs *PaymentCodePublic, i uint32) ([20]byte, []byte, error) {
	ourRootPriv, err := ours.accountNode.key.ECPrivKey()
	if err != nil {
		return [20]byte{}, nil, err
	}
	theirPubNode, err := theirs.publicNode()
	if err != nil {
		return [20]byte{}, nil, err
	}
	theirChildI, err := theirPubNode.deriveChild(i)
	if err != nil {
		return [20]byte{}, nil, err
	}
	theirPubI, err := theirChildI.key.ECPubKey()
	if err != nil {
		return [20]byte{}, nil, err
	}

	s := sharedSecret(ourRootPriv, theirPubI)
	ephemeralPriv := offsetPrivateKey(ourRootPriv, s)
	ephemeralPub := ephemeralPriv.PubKey()
	return addressFromPublicKey(ephemeralPub), ephemeralPub.SerializeCompressed(), nil
}
