package keeper

import (
	"testing"

	"github.com/paw-chain/crosslend/x/proxy/keeper"
	"github.com/paw-chain/crosslend/x/proxy/types"
)

// ProxyKeeper creates a test keeper for the proxy module backed by a mock money market.
func ProxyKeeper(t testing.TB) (*keeper.Keeper, *Env, *MockMoneyMarket) {
	env := NewEnv(t, types.StoreKey)
	market := NewMockMoneyMarket(env)
	k := keeper.NewKeeper(env.StoreKey(types.StoreKey), env.Ledger, market)
	return k, env, market
}

// MarketConfigOf returns the proxy market config matching market.
func MarketConfigOf(market *MockMoneyMarket) types.MarketConfig {
	return types.MarketConfig{
		StableDenom:    market.StableDenom,
		ATokenContract: market.AToken,
		RewardToken:    market.RewardToken,
	}
}
