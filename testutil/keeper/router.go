package keeper

import (
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	proxykeeper "github.com/paw-chain/crosslend/x/proxy/keeper"
	proxytypes "github.com/paw-chain/crosslend/x/proxy/types"
	routerkeeper "github.com/paw-chain/crosslend/x/router/keeper"
	routertypes "github.com/paw-chain/crosslend/x/router/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// RelayedAsset is one recorded SendAsset call.
type RelayedAsset struct {
	Caller sdk.AccAddress
	Origin sharedkeeper.Origin
	Asset  asset.Asset
}

// MockRelay records the assets the router hands back for relaying.
type MockRelay struct {
	Sent []RelayedAsset
	Fail error
}

var _ sharedkeeper.AssetRelayV1 = (*MockRelay)(nil)

func (m *MockRelay) SendAsset(_ context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, a asset.Asset) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.Sent = append(m.Sent, RelayedAsset{Caller: caller, Origin: origin, Asset: a})
	return nil
}

// RouterFixture wires a router to a real proxy keeper and a mock market.
type RouterFixture struct {
	Env    *Env
	Market *MockMoneyMarket
	Proxy  *proxykeeper.Keeper
	Router *routerkeeper.Keeper
	Owner  sdk.AccAddress
	Bridge sdk.AccAddress
	Relay  *MockRelay
}

// RouterKeeper creates a configured router with one whitelisted bridge whose
// asset relay is a MockRelay.
func RouterKeeper(t testing.TB) *RouterFixture {
	env := NewEnv(t, proxytypes.StoreKey, routertypes.StoreKey)
	market := NewMockMoneyMarket(env)
	pk := proxykeeper.NewKeeper(env.StoreKey(proxytypes.StoreKey), env.Ledger, market)
	rk := routerkeeper.NewKeeper(env.StoreKey(routertypes.StoreKey), env.Ledger, pk, market)

	f := &RouterFixture{
		Env:    env,
		Market: market,
		Proxy:  pk,
		Router: rk,
		Owner:  sdk.AccAddress("router_owner________"),
		Bridge: sdk.AccAddress("bridge______________"),
		Relay:  &MockRelay{},
	}

	require.NoError(t, rk.SetConfig(env.Ctx, routertypes.Config{
		Owner:       f.Owner.String(),
		ProxyCodeID: 1,
		Market:      MarketConfigOf(market),
	}))
	_, err := rk.AddBridges(env.Ctx, f.Owner, []sdk.AccAddress{f.Bridge})
	require.NoError(t, err)
	rk.RegisterAssetRelay(f.Bridge, f.Relay)

	return f
}
