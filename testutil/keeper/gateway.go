package keeper

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	gatewaykeeper "github.com/paw-chain/crosslend/x/gateway/keeper"
	gatewaytypes "github.com/paw-chain/crosslend/x/gateway/types"
	proxykeeper "github.com/paw-chain/crosslend/x/proxy/keeper"
	proxytypes "github.com/paw-chain/crosslend/x/proxy/types"
	routerkeeper "github.com/paw-chain/crosslend/x/router/keeper"
	routertypes "github.com/paw-chain/crosslend/x/router/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	wormholetypes "github.com/paw-chain/crosslend/x/wormhole/types"
)

// GatewayFixture is the whole relay: attestation network, router, proxies,
// a mock money market and the gateway, with a trusted gateway on RemoteChain.
type GatewayFixture struct {
	*WormholeFixture

	Market        *MockMoneyMarket
	Proxy         *proxykeeper.Keeper
	Router        *routerkeeper.Keeper
	Gateway       *gatewaykeeper.Keeper
	GatewayOwner  sdk.AccAddress
	RouterOwner   sdk.AccAddress
	Relayer       sdk.AccAddress
	RemoteGateway [32]byte
	// Collateral is a token registered with market custody.
	Collateral string
}

// GatewayKeeper creates the full relay stack. Bridge custody holds enough
// stable and collateral to pay out incoming transfers.
func GatewayKeeper(t testing.TB) *GatewayFixture {
	env := NewEnv(t, wormholetypes.StoreKey, proxytypes.StoreKey, routertypes.StoreKey, gatewaytypes.StoreKey)
	wh := installWormhole(t, env)

	market := NewMockMoneyMarket(env)
	pk := proxykeeper.NewKeeper(env.StoreKey(proxytypes.StoreKey), env.Ledger, market)
	rk := routerkeeper.NewKeeper(env.StoreKey(routertypes.StoreKey), env.Ledger, pk, market)
	gk := gatewaykeeper.NewKeeper(env.StoreKey(gatewaytypes.StoreKey), env.Ledger, wh.Keeper, wh.Keeper, rk)

	f := &GatewayFixture{
		WormholeFixture: wh,
		Market:          market,
		Proxy:           pk,
		Router:          rk,
		Gateway:         gk,
		GatewayOwner:    sdk.AccAddress("gateway_owner_______"),
		RouterOwner:     sdk.AccAddress("router_owner________"),
		Relayer:         sdk.AccAddress("relayer_____________"),
		Collateral:      sdk.AccAddress("collateral_token____").String(),
	}
	copy(f.RemoteGateway[:], "remote_gateway__________________")
	market.AddCustody(f.Collateral)

	require.NoError(t, rk.SetConfig(env.Ctx, routertypes.Config{
		Owner:       f.RouterOwner.String(),
		ProxyCodeID: 1,
		Market:      MarketConfigOf(market),
	}))
	_, err := rk.AddBridges(env.Ctx, f.RouterOwner, []sdk.AccAddress{gk.ModuleAddress()})
	require.NoError(t, err)
	rk.RegisterAssetRelay(gk.ModuleAddress(), gk)

	require.NoError(t, gk.SetConfig(env.Ctx, gatewaytypes.Config{
		Owner:     f.GatewayOwner.String(),
		HostChain: wormholetypes.DefaultHostChain,
	}))
	require.NoError(t, gk.RegisterRemoteGateway(env.Ctx, f.GatewayOwner, RemoteChain, f.RemoteGateway))

	custody := wh.Keeper.Address()
	env.FundNative(t, custody, sdk.NewCoins(sdk.NewInt64Coin(market.StableDenom, 1_000_000_000)))
	env.FundToken(t, market.AToken, custody, math.NewInt(1_000_000_000))
	env.FundToken(t, f.Collateral, custody, math.NewInt(1_000_000_000))
	env.FundNative(t, market.Pool, sdk.NewCoins(sdk.NewInt64Coin(market.StableDenom, 1_000_000_000)))
	return f
}

// RemoteUser returns the 32-byte address of a user on RemoteChain.
func RemoteUser(n byte) [32]byte {
	var out [32]byte
	out[0] = 0xEE
	out[31] = n
	return out
}

// InstructionVAA signs in as a message of the remote gateway at in.Sequence.
func (f *GatewayFixture) InstructionVAA(t testing.TB, in gatewaytypes.Instruction) []byte {
	return f.InstructionVAAFrom(t, RemoteChain, f.RemoteGateway, in)
}

// InstructionVAAFrom signs in as a message of an arbitrary emitter.
func (f *GatewayFixture) InstructionVAAFrom(t testing.TB, chain uint16, emitter [32]byte, in gatewaytypes.Instruction) []byte {
	payload, err := in.Encode()
	require.NoError(t, err)
	return f.Guardians.Sign(t, wormholetypes.Observation{
		EmitterChain:   chain,
		EmitterAddress: emitter,
		Sequence:       in.Sequence,
		Payload:        payload,
	})
}

// InboundTransferVAA signs a transfer of a paying the gateway, minus fee.
func (f *GatewayFixture) InboundTransferVAA(t testing.TB, seq uint64, a asset.Asset, fee math.Int) []byte {
	tokenAddress, err := wormholetypes.TokenAddress(a.Info)
	require.NoError(t, err)
	return f.TransferVAA(t, seq, wormholetypes.TransferPayload{
		Amount:         a.Amount,
		TokenAddress:   tokenAddress,
		TokenChain:     wormholetypes.DefaultHostChain,
		Recipient:      wormholetypes.Bytes32(f.Gateway.ModuleAddress()),
		RecipientChain: wormholetypes.DefaultHostChain,
		Fee:            fee,
	})
}
