package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveBip44ChangeDistinctBranches(t *testing.T) {
	root, err := newRootNode(testSeed(t))
	require.NoError(t, err)

	external, err := deriveBip44Change(root, CoinTypeQi, 0, 0)
	require.NoError(t, err)
	change, err := deriveBip44Change(root, CoinTypeQi, 0, 1)
	require.NoError(t, err)

	extLeaf, err := external.deriveChild(0)
	require.NoError(t, err)
	chgLeaf, err := change.deriveChild(0)
	require.NoError(t, err)

	extAddr, err := extLeaf.address()
	require.NoError(t, err)
	chgAddr, err := chgLeaf.address()
	require.NoError(t, err)
	require.NotEqual(t, extAddr, chgAddr)
}

func TestDeriveBip44ChangeDistinctAccounts(t *testing.T) {
	root, err := newRootNode(testSeed(t))
	require.NoError(t, err)

	a0, err := deriveBip44Change(root, CoinTypeQi, 0, 0)
	require.NoError(t, err)
	a1, err := deriveBip44Change(root, CoinTypeQi, 1, 0)
	require.NoError(t, err)

	leaf0, err := a0.deriveChild(5)
	require.NoError(t, err)
	leaf1, err := a1.deriveChild(5)
	require.NoError(t, err)

	addr0, err := leaf0.address()
	require.NoError(t, err)
	addr1, err := leaf1.address()
	require.NoError(t, err)
	require.NotEqual(t, addr0, addr1)
}

func TestDeriveBip44ChangeGoesThroughPurposeLevel(t *testing.T) {
	root, err := newRootNode(testSeed(t))
	require.NoError(t, err)

	viaHelper, err := deriveBip44Change(root, CoinTypeQi, 0, 0)
	require.NoError(t, err)

	purpose, err := root.deriveChild(Bip44Purpose + HardenedOffset)
	require.NoError(t, err)
	coinType, err := purpose.deriveChild(uint32(CoinTypeQi) + HardenedOffset)
	require.NoError(t, err)
	account, err := coinType.deriveChild(0 + HardenedOffset)
	require.NoError(t, err)
	change, err := account.deriveChild(0)
	require.NoError(t, err)

	a, err := viaHelper.address()
	require.NoError(t, err)
	b, err := change.address()
	require.NoError(t, err)
	require.Equal(t, a, b)
}
