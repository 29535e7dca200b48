package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

func testSeed(t *testing.T) []byte {
	t.Helper()
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	require.True(t, bip39.IsMnemonicValid(mnemonic))
	return bip39.NewSeed(mnemonic, "")
}

func TestNewRootNodeDeterministic(t *testing.T) {
	seed := testSeed(t)
	r1, err := newRootNode(seed)
	require.NoError(t, err)
	r2, err := newRootNode(seed)
	require.NoError(t, err)

	addr1, err := r1.address()
	require.NoError(t, err)
	addr2, err := r2.address()
	require.NoError(t, err)
	require.Equal(t, addr1, addr2)
}

func TestDeriveChildNonHardenedVsHardened(t *testing.T) {
	root, err := newRootNode(testSeed(t))
	require.NoError(t, err)

	normal, err := root.deriveChild(0)
	require.NoError(t, err)
	hardened, err := root.deriveChild(HardenedOffset)
	require.NoError(t, err)

	normalAddr, err := normal.address()
	require.NoError(t, err)
	hardenedAddr, err := hardened.address()
	require.NoError(t, err)
	require.NotEqual(t, normalAddr, hardenedAddr)
}

func TestAddressIs20Bytes(t *testing.T) {
	root, err := newRootNode(testSeed(t))
	require.NoError(t, err)
	addr, err := root.address()
	require.NoError(t, err)
	require.Len(t, addr, 20)
}

func TestPublicKeyCompressedLength(t *testing.T) {
	root, err := newRootNode(testSeed(t))
	require.NoError(t, err)
	pub, err := root.publicKeyCompressed()
	require.NoError(t, err)
	require.Len(t, pub, 33)
}
