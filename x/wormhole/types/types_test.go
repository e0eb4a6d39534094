package types_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/crosslend/x/shared/asset"
	"github.com/paw-chain/crosslend/x/wormhole/types"
)

func TestTokenAddress(t *testing.T) {
	native, err := types.TokenAddress(asset.NativeInfo("uusd"))
	require.NoError(t, err)
	require.Equal(t, byte(0x01), native[0])
	require.Equal(t, []byte("uusd"), native[28:])

	info, err := types.AssetInfoFromTokenAddress(native)
	require.NoError(t, err)
	require.Equal(t, asset.NativeInfo("uusd"), info)

	contract := sdk.AccAddress("collateral_token____")
	tok, err := types.TokenAddress(asset.TokenInfo(contract.String()))
	require.NoError(t, err)
	require.Equal(t, make([]byte, 12), tok[:12])
	info, err = types.AssetInfoFromTokenAddress(tok)
	require.NoError(t, err)
	require.Equal(t, asset.TokenInfo(contract.String()), info)

	_, err = types.TokenAddress(asset.NativeInfo("ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2"))
	require.Error(t, err, "denoms longer than 31 bytes do not fit")
}

func TestAccAddressBytes32(t *testing.T) {
	short := sdk.AccAddress("twenty_byte_account_")
	require.Equal(t, short, types.AccAddressFromBytes32(types.Bytes32(short)))

	long := make([]byte, 32)
	long[0] = 0x7f
	require.Equal(t, sdk.AccAddress(long), types.AccAddressFromBytes32(types.Bytes32(long)))
}

func TestTransferPayloadLayout(t *testing.T) {
	token, err := types.TokenAddress(asset.NativeInfo("uusd"))
	require.NoError(t, err)
	var recipient [32]byte
	recipient[31] = 0x05
	p := types.TransferPayload{
		Amount:         math.NewInt(1_000_000),
		TokenAddress:   token,
		TokenChain:     3,
		Recipient:      recipient,
		RecipientChain: 2,
		Fee:            math.NewInt(250),
	}
	bz, err := p.Encode()
	require.NoError(t, err)
	require.Len(t, bz, types.TransferPayloadLength)
	require.Equal(t, types.ActionTransfer, bz[0])
	require.Equal(t, []byte{0x0f, 0x42, 0x40}, bz[30:33])
	require.Equal(t, []byte{0x00, 0x03}, bz[65:67])
	require.Equal(t, byte(0x05), bz[98])
	require.Equal(t, []byte{0x00, 0x02}, bz[99:101])
	require.Equal(t, []byte{0x00, 0xfa}, bz[131:133])

	got, err := types.DecodeTransferPayload(bz)
	require.NoError(t, err)
	require.Equal(t, p.Amount, got.Amount)
	require.Equal(t, math.NewInt(999_750), got.Net())

	_, err = types.DecodeTransferPayload(bz[:100])
	require.ErrorIs(t, err, types.ErrInvalidTransfer)
	_, err = types.DecodeTransferPayload(append(bz, 0))
	require.ErrorIs(t, err, types.ErrInvalidTransfer)

	p.Fee = math.NewInt(2_000_000)
	_, err = p.Encode()
	require.ErrorIs(t, err, types.ErrInvalidTransfer)
}

func TestDecodeTransferPayloadNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bz := rapid.SliceOfN(rapid.Byte(), 0, 2*types.TransferPayloadLength).Draw(t, "payload")
		p, err := types.DecodeTransferPayload(bz)
		if err != nil {
			return
		}
		if len(bz) != types.TransferPayloadLength {
			t.Fatalf("accepted payload of length %d", len(bz))
		}
		if p.Fee.GT(p.Amount) {
			t.Fatalf("accepted fee %s above amount %s", p.Fee, p.Amount)
		}
	})
}

func TestGuardianSetValidate(t *testing.T) {
	require.Error(t, types.GuardianSet{}.Validate())
	dup := types.GuardianSet{Keys: []string{
		"0x58CC3AE5C097b213cE3c81979e1B9f9570746AA5",
		"0x58cc3ae5c097b213ce3c81979e1b9f9570746aa5",
	}}
	require.ErrorIs(t, dup.Validate(), types.ErrInvalidGuardianSet)
	require.Error(t, types.GuardianSet{Keys: []string{"nope"}}.Validate())

	gs := types.GuardianSet{Keys: dup.Keys[:1], ExpirationTime: 100}
	require.NoError(t, gs.Validate())
	require.Equal(t, 1, gs.Quorum())
	require.False(t, gs.ExpiredAt(100))
	require.True(t, gs.ExpiredAt(101))
	require.False(t, types.GuardianSet{Keys: dup.Keys[:1]}.ExpiredAt(1<<40))
}

func TestGenesisValidate(t *testing.T) {
	require.NoError(t, types.DefaultGenesis().Validate())

	gs := types.DefaultGenesis()
	gs.GuardianSets = []types.GuardianSet{{Index: 0, Keys: []string{"0x58CC3AE5C097b213cE3c81979e1B9f9570746AA5"}}}
	gs.CurrentGuardianSet = 1
	require.ErrorIs(t, gs.Validate(), types.ErrInvalidGenesis)

	gs = types.DefaultGenesis()
	gs.ForeignBridges = []types.ForeignBridge{{Chain: 2}, {Chain: 2}}
	require.ErrorIs(t, gs.Validate(), types.ErrInvalidGenesis)
}
