package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestNewFromMnemonicRejectsInvalid(t *testing.T) {
	_, err := NewFromMnemonic("not a real mnemonic phrase at all")
	require.Error(t, err)
}

func TestGetNextAddressAndGetAddressInfo(t *testing.T) {
	w, err := NewFromMnemonic(testMnemonic)
	require.NoError(t, err)

	ctx := context.Background()
	info, err := w.GetNextAddress(ctx, 0, Cyprus1)
	require.NoError(t, err)

	got, ok := w.GetAddressInfo(info.Address)
	require.True(t, ok)
	require.Equal(t, info.Address, got.Address)
}

func TestOpenChannelIdempotent(t *testing.T) {
	alice, err := NewFromMnemonic(testMnemonic)
	require.NoError(t, err)
	bob, err := NewFromMnemonic("zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong")
	require.NoError(t, err)

	bobCode, err := bob.GetPaymentCode(0)
	require.NoError(t, err)

	require.NoError(t, alice.OpenChannel(bobCode))
	require.True(t, alice.ChannelIsOpen(bobCode))
	// Re-opening must be a no-op, not an error (P6).
	require.NoError(t, alice.OpenChannel(bobCode))
}

func TestGetNextSendAndReceiveAddressSymmetry(t *testing.T) {
	alice, err := NewFromMnemonic(testMnemonic)
	require.NoError(t, err)
	bob, err := NewFromMnemonic("zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong")
	require.NoError(t, err)

	bobCode, err := bob.GetPaymentCode(0)
	require.NoError(t, err)
	aliceCode, err := alice.GetPaymentCode(0)
	require.NoError(t, err)

	require.NoError(t, alice.OpenChannel(bobCode))
	require.NoError(t, bob.OpenChannel(aliceCode))

	ctx := context.Background()
	sendAddr, err := alice.GetNextSendAddress(ctx, bobCode, Cyprus1)
	require.NoError(t, err)
	recvAddr, err := bob.GetNextReceiveAddress(ctx, aliceCode, Cyprus1)
	require.NoError(t, err)

	require.Equal(t, sendAddr.Address, recvAddr.Address)
}

func TestAllAddressesFacadeOrder(t *testing.T) {
	w, err := NewFromMnemonic(testMnemonic)
	require.NoError(t, err)
	ctx := context.Background()

	ext, err := w.GetNextAddress(ctx, 0, Cyprus1)
	require.NoError(t, err)
	chg, err := w.GetNextChangeAddress(ctx, 0, Cyprus1)
	require.NoError(t, err)

	all := w.AllAddresses()
	require.Len(t, all, 2)
	require.Equal(t, ext.Address, all[0].Address)
	require.Equal(t, chg.Address, all[1].Address)
}

func TestApplyAddressStatusUnknownFails(t *testing.T) {
	w, err := NewFromMnemonic(testMnemonic)
	require.NoError(t, err)
	err = w.ApplyAddressStatus([20]byte{0xAB}, StatusUsed)
	require.Error(t, err)
}
