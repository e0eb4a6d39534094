package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/proxy/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	"github.com/paw-chain/crosslend/x/shared/forward"
)

// Keeper of the proxy store
type Keeper struct {
	storeKey storetypes.StoreKey
	ledger   asset.Ledger
	market   types.MoneyMarket
	forward  forward.Keeper
}

// NewKeeper creates a new proxy Keeper instance
func NewKeeper(key storetypes.StoreKey, ledger asset.Ledger, market types.MoneyMarket) *Keeper {
	return &Keeper{
		storeKey: key,
		ledger:   ledger,
		market:   market,
		forward:  forward.NewKeeper(key, types.SnapshotKeyPrefix, ledger),
	}
}

// getStore returns the KVStore for the proxy module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}
