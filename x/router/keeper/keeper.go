package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/crosslend/x/router/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	"github.com/paw-chain/crosslend/x/shared/forward"
)

// Keeper of the router store
type Keeper struct {
	storeKey    storetypes.StoreKey
	ledger      asset.Ledger
	proxyKeeper types.ProxyKeeper
	market      types.MoneyMarket
	forward     forward.Keeper
	relays      map[string]types.AssetRelay
	metrics     *RouterMetrics
}

// NewKeeper creates a new router Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	ledger asset.Ledger,
	proxyKeeper types.ProxyKeeper,
	market types.MoneyMarket,
) *Keeper {
	return &Keeper{
		storeKey:    key,
		ledger:      ledger,
		proxyKeeper: proxyKeeper,
		market:      market,
		forward:     forward.NewKeeper(key, types.SnapshotKeyPrefix, ledger),
		relays:      make(map[string]types.AssetRelay),
		metrics:     GetRouterMetrics(),
	}
}

// RegisterAssetRelay wires the relay used to return assets to callers at addr.
// Must be called during app construction, before any block is processed.
func (k *Keeper) RegisterAssetRelay(addr sdk.AccAddress, relay types.AssetRelay) {
	k.relays[addr.String()] = relay
}

// ModuleAddress is the account the router holds funds under.
func (k Keeper) ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// getStore returns the KVStore for the router module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}
