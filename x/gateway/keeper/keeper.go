package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/crosslend/x/gateway/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	"github.com/paw-chain/crosslend/x/shared/sequence"
)

// Keeper of the gateway store
type Keeper struct {
	storeKey    storetypes.StoreKey
	ledger      asset.Ledger
	core        types.CoreBridge
	tokenBridge types.TokenBridge
	router      types.Router
	completed   *sequence.Manager
	metrics     *GatewayMetrics
}

// NewKeeper creates a new gateway Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	ledger asset.Ledger,
	core types.CoreBridge,
	tokenBridge types.TokenBridge,
	router types.Router,
) *Keeper {
	return &Keeper{
		storeKey:    key,
		ledger:      ledger,
		core:        core,
		tokenBridge: tokenBridge,
		router:      router,
		completed:   sequence.NewManager(key, types.CompletedErrors, types.CompletedInstructionNS),
		metrics:     GetGatewayMetrics(),
	}
}

// ModuleAddress is the account the gateway holds and relays funds under.
func (k Keeper) ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// getStore returns the KVStore for the gateway module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}
