package wallet

import (
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

func rootFor(t *testing.T, mnemonic string) *node {
	t.Helper()
	require.True(t, bip39.IsMnemonicValid(mnemonic))
	seed := bip39.NewSeed(mnemonic, "")
	root, err := newRootNode(seed)
	require.NoError(t, err)
	return root
}

func TestPaymentCodeStringRoundTrip(t *testing.T) {
	root := rootFor(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	priv, err := derivePaymentCodePrivate(root, 0)
	require.NoError(t, err)

	encoded := priv.String()
	decoded, err := decodePaymentCode(encoded)
	require.NoError(t, err)

	pub, err := priv.Public()
	require.NoError(t, err)
	require.Equal(t, pub.pubKey, decoded.pubKey)
	require.Equal(t, pub.chainCode, decoded.chainCode)
}

func TestDecodePaymentCodeRejectsWrongVersion(t *testing.T) {
	root := rootFor(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	priv, err := derivePaymentCodePrivate(root, 0)
	require.NoError(t, err)

	_, err = decodePaymentCode(base58.CheckEncode(priv.payload[:], PaymentCodeVersion+1))
	require.ErrorIs(t, err, ErrInvalidPaymentCode)
}

// TestStealthAddressSymmetry is the S5 scenario: Alice's send-to-Bob
// address at index i must equal Bob's self-receive address at index i
// when each derives using their own private code and the other's public
// code, for several indices.
func TestStealthAddressSymmetry(t *testing.T) {
	aliceRoot := rootFor(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	bobRoot := rootFor(t, "zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong")

	alicePriv, err := derivePaymentCodePrivate(aliceRoot, 0)
	require.NoError(t, err)
	bobPriv, err := derivePaymentCodePrivate(bobRoot, 0)
	require.NoError(t, err)

	alicePub, err := alicePriv.Public()
	require.NoError(t, err)
	bobPub, err := bobPriv.Public()
	require.NoError(t, err)

	for _, i := range []uint32{0, 1, 2, 41} {
		aliceSendAddr, aliceSendPub, err := deriveSendAddress(alicePriv, bobPub, i)
		require.NoError(t, err)

		bobReceiveAddr, bobReceivePub, err := deriveReceiveAddress(bobPriv, alicePub, i)
		require.NoError(t, err)

		require.Equal(t, aliceSendAddr, bobReceiveAddr, "index %d", i)
		require.Equal(t, aliceSendPub, bobReceivePub, "index %d", i)
	}
}

func TestStealthAddressesDistinctAcrossIndices(t *testing.T) {
	aliceRoot := rootFor(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	bobRoot := rootFor(t, "zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong")

	alicePriv, err := derivePaymentCodePrivate(aliceRoot, 0)
	require.NoError(t, err)
	bobPriv, err := derivePaymentCodePrivate(bobRoot, 0)
	require.NoError(t, err)
	bobPub, err := bobPriv.Public()
	require.NoError(t, err)

	addr0, _, err := deriveSendAddress(alicePriv, bobPub, 0)
	require.NoError(t, err)
	addr1, _, err := deriveSendAddress(alicePriv, bobPub, 1)
	require.NoError(t, err)
	require.NotEqual(t, addr0, addr1)
}
