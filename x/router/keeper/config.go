package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/router/types"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// GetConfig returns the router config.
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

// SetConfig validates and stores the router config.
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

// UpdateConfig changes the owner and/or the proxy code id. Zero values are ignored.
func (k Keeper) UpdateConfig(ctx context.Context, caller sdk.AccAddress, owner string, proxyCodeID uint64) error {
	cfg, err := k.requireOwner(ctx, caller)
	if err != nil {
		return err
	}
	if owner != "" {
		cfg.Owner = owner
	}
	if proxyCodeID != 0 {
		cfg.ProxyCodeID = proxyCodeID
	}
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeConfigUpdated,
			sdk.NewAttribute(types.AttributeKeyOwner, cfg.Owner),
			sdk.NewAttribute(types.AttributeKeyCodeID, strconv.FormatUint(cfg.ProxyCodeID, 10)),
		),
	)
	k.Logger(ctx).Info("router config updated", "owner", cfg.Owner, "proxy_code_id", cfg.ProxyCodeID)
	return nil
}

// AddBridges adds trusted relays to the whitelist and returns how many were new.
func (k Keeper) AddBridges(ctx context.Context, caller sdk.AccAddress, bridges []sdk.AccAddress) (uint32, error) {
	if _, err := k.requireOwner(ctx, caller); err != nil {
		return 0, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	var added uint32
	for _, b := range bridges {
		if b.Empty() {
			return 0, types.ErrInvalidConfig.Wrap("empty bridge address")
		}
		if k.IsWhitelisted(ctx, b) {
			continue
		}
		k.setWhitelisted(ctx, b)
		added++
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(types.EventTypeBridgesAdded, sdk.NewAttribute(types.AttributeKeyBridge, b.String())),
		)
	}
	return added, nil
}

// IsWhitelisted reports whether addr is a trusted relay.
func (k Keeper) IsWhitelisted(ctx context.Context, addr sdk.AccAddress) bool {
	return k.getStore(ctx).Has(types.GetWhitelistKey(addr))
}

func (k Keeper) setWhitelisted(ctx context.Context, addr sdk.AccAddress) {
	k.getStore(ctx).Set(types.GetWhitelistKey(addr), []byte{1})
}

// GetBridges returns all trusted relays.
func (k Keeper) GetBridges(ctx context.Context) []sdk.AccAddress {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.WhitelistPrefix)
	defer iterator.Close()

	var out []sdk.AccAddress
	for ; iterator.Valid(); iterator.Next() {
		out = append(out, sdk.AccAddress(append([]byte{}, iterator.Key()[len(types.WhitelistPrefix):]...)))
	}
	return out
}

// trustedRelay is the capability held by whitelisted callers.
func (k Keeper) trustedRelay(ctx context.Context) sharedkeeper.Capability {
	return sharedkeeper.GrantFunc(sharedkeeper.RoleTrustedRelay, func(addr sdk.AccAddress) bool {
		return k.IsWhitelisted(ctx, addr)
	})
}

func (k Keeper) requireTrustedRelay(ctx context.Context, caller sdk.AccAddress) error {
	if err := sharedkeeper.RequireCapability(caller, k.trustedRelay(ctx)); err != nil {
		return types.ErrNotWhitelisted.Wrapf("%s", caller)
	}
	return nil
}
