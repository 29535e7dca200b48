package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetNextAddressAdvancesCursor(t *testing.T) {
	root := rootFor(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	sw := newBip44SubWallet(kindBip44External, root, 0)

	ctx := context.Background()
	first, err := sw.getNextAddress(ctx, 0, Cyprus1)
	require.NoError(t, err)
	second, err := sw.getNextAddress(ctx, 0, Cyprus1)
	require.NoError(t, err)

	require.Less(t, first.Index, second.Index)
	require.Equal(t, StatusUnknown, first.Status)
	require.Equal(t, int64(second.Index), sw.lastIndexFor(Cyprus1, 0))
}

func TestAddAddressRejectsDuplicateIndex(t *testing.T) {
	root := rootFor(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	sw := newBip44SubWallet(kindBip44External, root, 0)

	// Index 2 of m/44'/969'/0'/0 for this mnemonic is a Paxos2 Qi
	// address, so the first addAddress succeeds.
	_, err := sw.addAddress(0, 2)
	require.NoError(t, err)

	_, err = sw.addAddress(0, 2)
	require.ErrorIs(t, err, ErrIndexInUse)
}

func TestLastIndexForUnknownIsNegativeOne(t *testing.T) {
	root := rootFor(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	sw := newBip44SubWallet(kindBip44External, root, 0)
	require.Equal(t, int64(-1), sw.lastIndexFor(Cyprus1, 0))
}

func TestApplyStatusUnknownAddress(t *testing.T) {
	root := rootFor(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	sw := newBip44SubWallet(kindBip44External, root, 0)
	err := sw.applyStatus([20]byte{}, StatusUsed)
	require.Error(t, err)
}

func TestApplyStatusTransition(t *testing.T) {
	root := rootFor(t, "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	sw := newBip44SubWallet(kindBip44External, root, 0)

	info, err := sw.getNextAddress(context.Background(), 0, Cyprus1)
	require.NoError(t, err)

	require.NoError(t, sw.applyStatus(info.Address, StatusUsed))
	got, ok := sw.get(info.Address)
	require.True(t, ok)
	require.Equal(t, StatusUsed, got.Status)
}
