package keeper

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/gateway/types"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// GetConfig returns the gateway config.
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

// SetConfig validates and stores the gateway config.
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

// UpdateOwner hands gateway ownership to owner.
func (k Keeper) UpdateOwner(ctx context.Context, caller sdk.AccAddress, owner string) error {
	cfg, err := k.requireOwner(ctx, caller)
	if err != nil {
		return err
	}
	cfg.Owner = owner
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypeConfigUpdated, sdk.NewAttribute(types.AttributeKeyOwner, owner)),
	)
	return nil
}

// RegisterRemoteGateway trusts addr as the gateway emitting instructions
// from chain. Re-registering a chain replaces its address.
func (k Keeper) RegisterRemoteGateway(ctx context.Context, caller sdk.AccAddress, chain uint16, addr [32]byte) error {
	cfg, err := k.requireOwner(ctx, caller)
	if err != nil {
		return err
	}
	if chain == 0 || chain == cfg.HostChain {
		return types.ErrInvalidConfig.Wrapf("cannot register chain %d", chain)
	}
	k.setRemoteGateway(ctx, chain, addr)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRemoteGatewaySet,
			sdk.NewAttribute(types.AttributeKeyChain, strconv.FormatUint(uint64(chain), 10)),
			sdk.NewAttribute(types.AttributeKeyAddress, hex.EncodeToString(addr[:])),
		),
	)
	k.Logger(ctx).Info("remote gateway registered", "chain", chain, "address", hex.EncodeToString(addr[:]))
	return nil
}

func (k Keeper) setRemoteGateway(ctx context.Context, chain uint16, addr [32]byte) {
	k.getStore(ctx).Set(types.GetRemoteGatewayKey(chain), addr[:])
}

// GetRemoteGateway returns the gateway trusted for chain.
func (k Keeper) GetRemoteGateway(ctx context.Context, chain uint16) ([32]byte, bool) {
	var out [32]byte
	bz := k.getStore(ctx).Get(types.GetRemoteGatewayKey(chain))
	if len(bz) != 32 {
		return out, false
	}
	copy(out[:], bz)
	return out, true
}

// GetAllRemoteGateways returns every chain registration ordered by chain.
func (k Keeper) GetAllRemoteGateways(ctx context.Context) []types.ChainRegistration {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.RemoteGatewayPrefix)
	defer iterator.Close()

	var out []types.ChainRegistration
	for ; iterator.Valid(); iterator.Next() {
		r := types.ChainRegistration{Chain: binary.BigEndian.Uint16(iterator.Key()[len(types.RemoteGatewayPrefix):])}
		copy(r.Address[:], iterator.Value())
		out = append(out, r)
	}
	return out
}

// GetSequenceRecord returns the record of an instruction.
func (k Keeper) GetSequenceRecord(ctx context.Context, chain uint16, seq uint64) (types.SequenceRecord, bool) {
	bz := k.getStore(ctx).Get(types.GetSequenceRecordKey(chain, seq))
	if bz == nil {
		return types.SequenceRecord{}, false
	}
	var rec types.SequenceRecord
	if err := json.Unmarshal(bz, &rec); err != nil {
		return types.SequenceRecord{}, false
	}
	return rec, true
}

func (k Keeper) setSequenceRecord(ctx context.Context, chain uint16, seq uint64, rec types.SequenceRecord) error {
	bz, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal sequence record: %w", err)
	}
	k.getStore(ctx).Set(types.GetSequenceRecordKey(chain, seq), bz)
	return nil
}

// GetAllSequenceRecords returns every record ordered by chain and sequence.
func (k Keeper) GetAllSequenceRecords(ctx context.Context) []types.SequenceRecordEntry {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.SequenceRecordPrefix)
	defer iterator.Close()

	var out []types.SequenceRecordEntry
	for ; iterator.Valid(); iterator.Next() {
		chain, seq, ok := types.ParseSequenceKey(iterator.Key()[len(types.SequenceRecordPrefix):])
		if !ok {
			continue
		}
		var rec types.SequenceRecord
		if err := json.Unmarshal(iterator.Value(), &rec); err != nil {
			continue
		}
		out = append(out, types.SequenceRecordEntry{Chain: chain, Sequence: seq, Record: rec})
	}
	return out
}

// GetPendingTransfer returns the outgoing transfer awaiting the asset of an instruction.
func (k Keeper) GetPendingTransfer(ctx context.Context, chain uint16, seq uint64) (types.OutgoingTransferInfo, bool) {
	bz := k.getStore(ctx).Get(types.GetPendingOutgoingKey(chain, seq))
	if bz == nil {
		return types.OutgoingTransferInfo{}, false
	}
	info, err := types.DecodeOutgoingTransferInfo(bz)
	if err != nil {
		return types.OutgoingTransferInfo{}, false
	}
	return info, true
}

func (k Keeper) setPendingTransfer(ctx context.Context, info types.OutgoingTransferInfo) {
	k.getStore(ctx).Set(types.GetPendingOutgoingKey(info.ChainID, info.InstructionSequence), info.Encode())
}

func (k Keeper) deletePendingTransfer(ctx context.Context, chain uint16, seq uint64) {
	k.getStore(ctx).Delete(types.GetPendingOutgoingKey(chain, seq))
}

// GetAllPendingTransfers returns every outgoing transfer still awaiting its asset.
func (k Keeper) GetAllPendingTransfers(ctx context.Context) []types.OutgoingTransferInfo {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PendingOutgoingPrefix)
	defer iterator.Close()

	var out []types.OutgoingTransferInfo
	for ; iterator.Valid(); iterator.Next() {
		info, err := types.DecodeOutgoingTransferInfo(iterator.Value())
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out
}

// IsCompleted reports whether an instruction hash was already processed.
func (k Keeper) IsCompleted(ctx context.Context, hash []byte) bool {
	return k.completed.IsProcessed(sdk.UnwrapSDKContext(ctx), hash)
}
