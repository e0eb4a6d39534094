package keeper

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	proxytypes "github.com/paw-chain/crosslend/x/proxy/types"
	"github.com/paw-chain/crosslend/x/router/types"
)

// InitializeProxy provisions the proxy of (chain, remote) unless it already
// exists or is being provisioned, in which case the call is a no-op.
func (k Keeper) InitializeProxy(ctx context.Context, caller sdk.AccAddress, chain uint16, remote [32]byte) error {
	if err := k.requireTrustedRelay(ctx, caller); err != nil {
		return err
	}

	if _, found := k.GetProxyAddress(ctx, chain, remote); found {
		k.metrics.ProvisionNoops.WithLabelValues("provisioned").Inc()
		return nil
	}
	store := k.getStore(ctx)
	if store.Has(types.GetInFlightKey(chain, remote)) {
		k.metrics.ProvisionNoops.WithLabelValues("in_flight").Inc()
		return nil
	}

	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}

	id := k.nextCorrelationID(ctx)
	pending := types.PendingProvision{
		CorrelationID: id,
		Chain:         chain,
		RemoteAddress: append([]byte{}, remote[:]...),
	}
	bz, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("marshal pending provision: %w", err)
	}
	store.Set(types.GetPendingProvisionKey(id), bz)
	store.Set(types.GetInFlightKey(chain, remote), sdk.Uint64ToBigEndian(id))

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProxyRequested,
			sdk.NewAttribute(types.AttributeKeyChain, strconv.FormatUint(uint64(chain), 10)),
			sdk.NewAttribute(types.AttributeKeyRemoteAddress, hex.EncodeToString(remote[:])),
			sdk.NewAttribute(types.AttributeKeyCorrelationID, strconv.FormatUint(id, 10)),
		),
	)

	reply, err := k.proxyKeeper.Instantiate(ctx, k.ModuleAddress(), proxytypes.InstantiateRequest{
		CorrelationID: id,
		CodeID:        cfg.ProxyCodeID,
		Chain:         chain,
		RemoteAddress: remote,
		Market:        cfg.Market,
	})
	if err != nil {
		return types.ErrUpstream.Wrapf("instantiate proxy: %s", err)
	}
	return k.OnInstantiateReply(ctx, reply)
}

// OnInstantiateReply completes the provisioning identified by the reply's
// correlation id and registers the new proxy.
func (k Keeper) OnInstantiateReply(ctx context.Context, reply proxytypes.InstantiateReply) error {
	store := k.getStore(ctx)
	bz := store.Get(types.GetPendingProvisionKey(reply.CorrelationID))
	if bz == nil {
		return types.ErrPendingProvisionNotFound.Wrapf("correlation id %d", reply.CorrelationID)
	}
	var pending types.PendingProvision
	if err := json.Unmarshal(bz, &pending); err != nil {
		return fmt.Errorf("unmarshal pending provision: %w", err)
	}
	if reply.Address.Empty() {
		return types.ErrUpstream.Wrap("instantiate reply without address")
	}

	remote := pending.Remote()
	store.Delete(types.GetPendingProvisionKey(reply.CorrelationID))
	store.Delete(types.GetInFlightKey(pending.Chain, remote))
	store.Set(types.GetProxyRegistryKey(pending.Chain, remote), reply.Address)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProxyProvisioned,
			sdk.NewAttribute(types.AttributeKeyChain, strconv.FormatUint(uint64(pending.Chain), 10)),
			sdk.NewAttribute(types.AttributeKeyRemoteAddress, hex.EncodeToString(remote[:])),
			sdk.NewAttribute(types.AttributeKeyProxy, reply.Address.String()),
			sdk.NewAttribute(types.AttributeKeyCorrelationID, strconv.FormatUint(reply.CorrelationID, 10)),
		),
	)
	k.metrics.ProxiesProvisioned.Inc()
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "proxy_provisioned"},
		1,
		[]metrics.Label{telemetry.NewLabel("chain", strconv.FormatUint(uint64(pending.Chain), 10))},
	)
	k.Logger(ctx).Info("proxy provisioned",
		"chain", pending.Chain,
		"remote", hex.EncodeToString(remote[:]),
		"proxy", reply.Address.String(),
	)
	return nil
}

// GetProxyAddress returns the proxy provisioned for (chain, remote).
func (k Keeper) GetProxyAddress(ctx context.Context, chain uint16, remote [32]byte) (sdk.AccAddress, bool) {
	bz := k.getStore(ctx).Get(types.GetProxyRegistryKey(chain, remote))
	if bz == nil {
		return nil, false
	}
	return sdk.AccAddress(bz), true
}

// IsProvisioning reports whether a provisioning of (chain, remote) awaits its reply.
func (k Keeper) IsProvisioning(ctx context.Context, chain uint16, remote [32]byte) bool {
	return k.getStore(ctx).Has(types.GetInFlightKey(chain, remote))
}

// GetAllProxies returns the proxy registry ordered by (chain, remote).
func (k Keeper) GetAllProxies(ctx context.Context) []types.ProxyEntry {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ProxyRegistryPrefix)
	defer iterator.Close()

	var out []types.ProxyEntry
	for ; iterator.Valid(); iterator.Next() {
		chain, remote, ok := types.ParseRemoteKey(iterator.Key()[len(types.ProxyRegistryPrefix):])
		if !ok {
			continue
		}
		out = append(out, types.ProxyEntry{
			Chain:         chain,
			RemoteAddress: append([]byte{}, remote[:]...),
			Proxy:         sdk.AccAddress(iterator.Value()).String(),
		})
	}
	return out
}

func (k Keeper) setProxy(ctx context.Context, chain uint16, remote [32]byte, proxy sdk.AccAddress) {
	k.getStore(ctx).Set(types.GetProxyRegistryKey(chain, remote), proxy)
}

func (k Keeper) nextCorrelationID(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	id := uint64(1)
	if bz := store.Get(types.NextCorrelationIDKey); bz != nil {
		id = sdk.BigEndianToUint64(bz)
	}
	store.Set(types.NextCorrelationIDKey, sdk.Uint64ToBigEndian(id+1))
	return id
}

func (k Keeper) setNextCorrelationID(ctx context.Context, id uint64) {
	k.getStore(ctx).Set(types.NextCorrelationIDKey, sdk.Uint64ToBigEndian(id))
}

func (k Keeper) peekCorrelationID(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.NextCorrelationIDKey)
	if bz == nil {
		return 1
	}
	return sdk.BigEndianToUint64(bz)
}
