package keeper

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/proxy/types"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// Instantiate creates the proxy of (req.Chain, req.RemoteAddress) administered by caller.
func (k Keeper) Instantiate(ctx context.Context, caller sdk.AccAddress, req types.InstantiateRequest) (types.InstantiateReply, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if caller.Empty() {
		return types.InstantiateReply{}, fmt.Errorf("instantiate: empty admin")
	}
	if req.CodeID == 0 {
		return types.InstantiateReply{}, types.ErrInvalidCodeID
	}
	if err := req.Market.Validate(); err != nil {
		return types.InstantiateReply{}, err
	}

	addr := sdk.AccAddress(types.DeriveAddress(req.Chain, req.RemoteAddress))
	if _, found := k.GetInstance(ctx, addr); found {
		return types.InstantiateReply{}, types.ErrAlreadyInstantiated.Wrapf("%s", addr)
	}

	inst := types.Instance{
		Address:       addr.String(),
		Admin:         caller.String(),
		CodeID:        req.CodeID,
		Chain:         req.Chain,
		RemoteAddress: append([]byte{}, req.RemoteAddress[:]...),
		Market:        req.Market,
		CreatedHeight: sdkCtx.BlockHeight(),
	}
	if err := k.SetInstance(ctx, inst); err != nil {
		return types.InstantiateReply{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProxyInstantiated,
			sdk.NewAttribute(types.AttributeKeyProxy, inst.Address),
			sdk.NewAttribute(types.AttributeKeyAdmin, inst.Admin),
			sdk.NewAttribute(types.AttributeKeyChain, strconv.FormatUint(uint64(req.Chain), 10)),
			sdk.NewAttribute(types.AttributeKeyRemoteAddress, hex.EncodeToString(req.RemoteAddress[:])),
			sdk.NewAttribute(types.AttributeKeyCodeID, strconv.FormatUint(req.CodeID, 10)),
			sdk.NewAttribute(types.AttributeKeyCorrelationID, strconv.FormatUint(req.CorrelationID, 10)),
		),
	)
	k.Logger(ctx).Info("proxy instantiated", "proxy", inst.Address, "chain", req.Chain, "code_id", req.CodeID)

	return types.InstantiateReply{CorrelationID: req.CorrelationID, Address: addr}, nil
}

// Migrate moves proxy to codeID. Only the proxy admin may migrate.
func (k Keeper) Migrate(ctx context.Context, caller, proxy sdk.AccAddress, codeID uint64) error {
	inst, err := k.mustInstance(ctx, proxy)
	if err != nil {
		return err
	}
	admin, err := sdk.AccAddressFromBech32(inst.Admin)
	if err != nil {
		return fmt.Errorf("migrate: stored admin: %w", err)
	}
	if err := sharedkeeper.RequireCapability(caller, sharedkeeper.Grant(sharedkeeper.RoleProxyAdmin, admin)); err != nil {
		return err
	}
	if codeID == 0 {
		return types.ErrInvalidCodeID
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	inst.CodeID = codeID
	inst.MigratedAt = sdkCtx.BlockHeight()
	if err := k.SetInstance(ctx, inst); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProxyMigrated,
			sdk.NewAttribute(types.AttributeKeyProxy, inst.Address),
			sdk.NewAttribute(types.AttributeKeyCodeID, strconv.FormatUint(codeID, 10)),
		),
	)
	return nil
}

// GetInstance returns the proxy stored at addr.
func (k Keeper) GetInstance(ctx context.Context, addr sdk.AccAddress) (types.Instance, bool) {
	bz := k.getStore(ctx).Get(types.GetInstanceKey(addr))
	if bz == nil {
		return types.Instance{}, false
	}
	var inst types.Instance
	if err := json.Unmarshal(bz, &inst); err != nil {
		k.Logger(ctx).Error("corrupt proxy instance", "proxy", addr.String(), "error", err)
		return types.Instance{}, false
	}
	return inst, true
}

// GetInstanceByRemote returns the proxy serving (chain, remote).
func (k Keeper) GetInstanceByRemote(ctx context.Context, chain uint16, remote [32]byte) (types.Instance, bool) {
	bz := k.getStore(ctx).Get(types.GetRemoteIndexKey(chain, remote))
	if bz == nil {
		return types.Instance{}, false
	}
	return k.GetInstance(ctx, bz)
}

// SetInstance stores inst and its remote index entry.
func (k Keeper) SetInstance(ctx context.Context, inst types.Instance) error {
	addr, err := sdk.AccAddressFromBech32(inst.Address)
	if err != nil {
		return fmt.Errorf("set instance: %w", err)
	}
	bz, err := json.Marshal(inst)
	if err != nil {
		return fmt.Errorf("set instance: marshal: %w", err)
	}
	store := k.getStore(ctx)
	store.Set(types.GetInstanceKey(addr), bz)
	store.Set(types.GetRemoteIndexKey(inst.Chain, inst.Remote()), addr)
	return nil
}

// GetAllInstances returns every proxy ordered by address.
func (k Keeper) GetAllInstances(ctx context.Context) []types.Instance {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.InstanceKeyPrefix)
	defer iterator.Close()

	var out []types.Instance
	for ; iterator.Valid(); iterator.Next() {
		var inst types.Instance
		if err := json.Unmarshal(iterator.Value(), &inst); err != nil {
			k.Logger(ctx).Error("corrupt proxy instance", "key", hex.EncodeToString(iterator.Key()), "error", err)
			continue
		}
		out = append(out, inst)
	}
	return out
}

func (k Keeper) mustInstance(ctx context.Context, proxy sdk.AccAddress) (types.Instance, error) {
	inst, found := k.GetInstance(ctx, proxy)
	if !found {
		return types.Instance{}, types.ErrProxyNotFound.Wrapf("%s", proxy)
	}
	return inst, nil
}
