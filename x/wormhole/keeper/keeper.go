package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
	"github.com/paw-chain/crosslend/x/shared/sequence"
	"github.com/paw-chain/crosslend/x/wormhole/types"
)

// Keeper runs the local core bridge and token bridge of the attestation network.
type Keeper struct {
	storeKey  storetypes.StoreKey
	ledger    asset.Ledger
	sequences *sequence.Manager
	executed  *sequence.Manager
	metrics   *WormholeMetrics
}

// NewKeeper creates a new wormhole Keeper instance
func NewKeeper(key storetypes.StoreKey, ledger asset.Ledger) *Keeper {
	return &Keeper{
		storeKey:  key,
		ledger:    ledger,
		sequences: sequence.NewManager(key, types.ExecutedErrors, types.CoreSequenceNamespace),
		executed:  sequence.NewManager(key, types.ExecutedErrors, types.ExecutedTransferNamespace),
		metrics:   GetWormholeMetrics(),
	}
}

// Address is the token bridge custody account.
func (k Keeper) Address() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.TokenBridgeAccount)
}

// getStore returns the KVStore for the wormhole module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}

// GetConfig returns the module config.
func (k Keeper) GetConfig(ctx context.Context) (types.Config, error) {
	bz := k.getStore(ctx).Get(types.ConfigKey)
	if bz == nil {
		return types.Config{}, types.ErrConfigNotFound
	}
	var cfg types.Config
	if err := json.Unmarshal(bz, &cfg); err != nil {
		return types.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// SetConfig validates and stores the module config.
func (k Keeper) SetConfig(ctx context.Context, cfg types.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	k.getStore(ctx).Set(types.ConfigKey, bz)
	return nil
}

func (k Keeper) requireOwner(ctx context.Context, caller sdk.AccAddress) (types.Config, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Config{}, err
	}
	if err := sharedkeeper.ValidateAuthority(cfg.Owner, caller.String()); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}
