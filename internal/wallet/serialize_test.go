package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	w, err := NewFromMnemonic(testMnemonic)
	require.NoError(t, err)

	ctx := context.Background()
	ext, err := w.GetNextAddress(ctx, 0, Cyprus1)
	require.NoError(t, err)
	chg, err := w.GetNextChangeAddress(ctx, 0, Cyprus1)
	require.NoError(t, err)
	require.NoError(t, w.ApplyAddressStatus(ext.Address, StatusUsed))

	blob, err := w.Serialize()
	require.NoError(t, err)
	require.Equal(t, WalletVersion, blob.Version)
	require.Len(t, blob.Addresses, 2)

	restored, err := Deserialize(blob)
	require.NoError(t, err)

	gotExt, ok := restored.GetAddressInfo(ext.Address)
	require.True(t, ok)
	require.Equal(t, StatusUsed, gotExt.Status)

	gotChg, ok := restored.GetAddressInfo(chg.Address)
	require.True(t, ok)
	require.Equal(t, chg.Address, gotChg.Address)
}

func TestSerializeIncludesOnlySelfReceiveChannelAddresses(t *testing.T) {
	alice, err := NewFromMnemonic(testMnemonic)
	require.NoError(t, err)
	bob, err := NewFromMnemonic("zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo wrong")
	require.NoError(t, err)

	bobCode, err := bob.GetPaymentCode(0)
	require.NoError(t, err)
	require.NoError(t, alice.OpenChannel(bobCode))

	ctx := context.Background()
	_, err = alice.GetNextSendAddress(ctx, bobCode, Cyprus1)
	require.NoError(t, err)

	blob, err := alice.Serialize()
	require.NoError(t, err)
	require.Empty(t, blob.Addresses, "counterparty-send addresses must not be serialized")
}

func TestDeserializeRejectsWrongVersion(t *testing.T) {
	blob := &WalletBlob{Version: 99, Phrase: testMnemonic, CoinType: uint32(CoinTypeQi)}
	_, err := Deserialize(blob)
	require.Error(t, err)
}
