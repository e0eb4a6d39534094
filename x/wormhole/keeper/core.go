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
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/wormhole-foundation/wormhole/sdk/vaa"

	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
	"github.com/paw-chain/crosslend/x/wormhole/types"
)

const (
	vaaHeaderLength    = 6
	vaaSignatureLength = 66
)

// GetGuardianSet returns the guardian set at index.
func (k Keeper) GetGuardianSet(ctx context.Context, index uint32) (types.GuardianSet, bool) {
	bz := k.getStore(ctx).Get(types.GetGuardianSetKey(index))
	if bz == nil {
		return types.GuardianSet{}, false
	}
	var gs types.GuardianSet
	if err := json.Unmarshal(bz, &gs); err != nil {
		return types.GuardianSet{}, false
	}
	return gs, true
}

// SetGuardianSet stores a guardian set without changing the active index.
func (k Keeper) SetGuardianSet(ctx context.Context, gs types.GuardianSet) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("marshal guardian set: %w", err)
	}
	k.getStore(ctx).Set(types.GetGuardianSetKey(gs.Index), bz)
	return nil
}

// GetCurrentGuardianSetIndex returns the index of the active guardian set.
func (k Keeper) GetCurrentGuardianSetIndex(ctx context.Context) uint32 {
	bz := k.getStore(ctx).Get(types.CurrentGuardianSetKey)
	if len(bz) != 4 {
		return 0
	}
	return binary.BigEndian.Uint32(bz)
}

func (k Keeper) setCurrentGuardianSetIndex(ctx context.Context, index uint32) {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, index)
	k.getStore(ctx).Set(types.CurrentGuardianSetKey, bz)
}

// GetAllGuardianSets returns every stored guardian set ordered by index.
func (k Keeper) GetAllGuardianSets(ctx context.Context) []types.GuardianSet {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.GuardianSetPrefix)
	defer iterator.Close()

	var out []types.GuardianSet
	for ; iterator.Valid(); iterator.Next() {
		var gs types.GuardianSet
		if err := json.Unmarshal(iterator.Value(), &gs); err != nil {
			continue
		}
		out = append(out, gs)
	}
	return out
}

// UpdateGuardianSet installs keys as the next guardian set. The replaced set
// keeps verifying for the configured expiry.
func (k Keeper) UpdateGuardianSet(ctx context.Context, caller sdk.AccAddress, keys []string) (uint32, error) {
	cfg, err := k.requireOwner(ctx, caller)
	if err != nil {
		return 0, err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	current := k.GetCurrentGuardianSetIndex(ctx)
	next := types.GuardianSet{Index: current, Keys: keys}
	old, found := k.GetGuardianSet(ctx, current)
	if found {
		next.Index = current + 1
	}
	if err := next.Validate(); err != nil {
		return 0, err
	}
	if found {
		old.ExpirationTime = uint64(sdkCtx.BlockTime().Unix()) + cfg.GuardianSetExpiry
		if err := k.SetGuardianSet(ctx, old); err != nil {
			return 0, err
		}
	}
	if err := k.SetGuardianSet(ctx, next); err != nil {
		return 0, err
	}
	k.setCurrentGuardianSetIndex(ctx, next.Index)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeGuardianSetUpdate,
			sdk.NewAttribute(types.AttributeKeyIndex, strconv.FormatUint(uint64(next.Index), 10)),
		),
	)
	k.Logger(ctx).Info("guardian set updated", "index", next.Index, "guardians", len(keys))
	return next.Index, nil
}

// VerifyAttestation parses raw as a VAA and checks it against its guardian set.
func (k Keeper) VerifyAttestation(ctx context.Context, raw []byte) (att sharedkeeper.Attestation, err error) {
	defer func() {
		result := "valid"
		if err != nil {
			result = "invalid"
		}
		k.metrics.VAAsVerified.WithLabelValues(result).Inc()
	}()

	v, err := vaa.Unmarshal(raw)
	if err != nil {
		return att, types.ErrInvalidVAA.Wrap(err.Error())
	}
	if v.Version != types.VAAVersion {
		return att, types.ErrInvalidVAA.Wrapf("unsupported version %d", v.Version)
	}

	gs, found := k.GetGuardianSet(ctx, v.GuardianSetIndex)
	if !found {
		return att, types.ErrGuardianSetNotFound.Wrapf("index %d", v.GuardianSetIndex)
	}
	now := uint64(sdk.UnwrapSDKContext(ctx).BlockTime().Unix())
	if gs.ExpiredAt(now) {
		return att, types.ErrGuardianSetExpired.Wrapf("index %d expired at %d", gs.Index, gs.ExpirationTime)
	}
	if len(v.Signatures) < gs.Quorum() {
		return att, types.ErrNoQuorum.Wrapf("%d signatures, need %d", len(v.Signatures), gs.Quorum())
	}
	for i, sig := range v.Signatures {
		if int(sig.Index) >= len(gs.Keys) {
			return att, types.ErrInvalidSignature.Wrapf("guardian index %d out of range", sig.Index)
		}
		if i > 0 && sig.Index <= v.Signatures[i-1].Index {
			return att, types.ErrInvalidSignature.Wrap("guardian indices must be strictly increasing")
		}
	}
	if !v.VerifySignatures(gs.Addresses()) {
		return att, types.ErrInvalidSignature.Wrap("signature does not match guardian")
	}

	bodyStart := vaaHeaderLength + vaaSignatureLength*len(v.Signatures)
	if len(raw) < bodyStart {
		return att, types.ErrInvalidVAA.Wrap("truncated body")
	}
	return sharedkeeper.Attestation{
		EmitterChain:   uint16(v.EmitterChain),
		EmitterAddress: [32]byte(v.EmitterAddress),
		Sequence:       v.Sequence,
		Timestamp:      uint32(v.Timestamp.Unix()),
		Payload:        v.Payload,
		Hash:           crypto.Keccak256(raw[bodyStart:]),
	}, nil
}

// NextSequence returns the sequence the next message of emitter will carry.
func (k Keeper) NextSequence(ctx context.Context, emitter [32]byte) uint64 {
	return k.sequences.Current(sdk.UnwrapSDKContext(ctx), emitter[:])
}

// PostMessage publishes payload under emitter and returns its sequence.
func (k Keeper) PostMessage(ctx context.Context, emitter sdk.AccAddress, payload []byte, nonce uint32) (uint64, error) {
	if emitter.Empty() {
		return 0, types.ErrInvalidVAA.Wrap("empty emitter")
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	emitter32 := types.Bytes32(emitter)

	msg := types.MessagePublication{
		Emitter:   emitter32,
		Sequence:  k.sequences.Next(sdkCtx, emitter32[:]),
		Nonce:     nonce,
		Timestamp: sdkCtx.BlockTime().Unix(),
		Payload:   append([]byte{}, payload...),
	}
	if err := k.setMessage(ctx, msg); err != nil {
		return 0, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMessagePosted,
			sdk.NewAttribute(types.AttributeKeyEmitter, hex.EncodeToString(emitter32[:])),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(msg.Sequence, 10)),
			sdk.NewAttribute(types.AttributeKeyNonce, strconv.FormatUint(uint64(nonce), 10)),
			sdk.NewAttribute(types.AttributeKeyPayload, hex.EncodeToString(payload)),
		),
	)
	k.metrics.MessagesPosted.Inc()
	return msg.Sequence, nil
}

func (k Keeper) setMessage(ctx context.Context, msg types.MessagePublication) error {
	bz, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	k.getStore(ctx).Set(types.GetPostedMessageKey(msg.Emitter, msg.Sequence), bz)
	return nil
}

// GetMessage returns a posted message.
func (k Keeper) GetMessage(ctx context.Context, emitter [32]byte, seq uint64) (types.MessagePublication, bool) {
	bz := k.getStore(ctx).Get(types.GetPostedMessageKey(emitter, seq))
	if bz == nil {
		return types.MessagePublication{}, false
	}
	var msg types.MessagePublication
	if err := json.Unmarshal(bz, &msg); err != nil {
		return types.MessagePublication{}, false
	}
	return msg, true
}

// GetAllMessages returns every posted message ordered by emitter and sequence.
func (k Keeper) GetAllMessages(ctx context.Context) []types.MessagePublication {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PostedMessagePrefix)
	defer iterator.Close()

	var out []types.MessagePublication
	for ; iterator.Valid(); iterator.Next() {
		var msg types.MessagePublication
		if err := json.Unmarshal(iterator.Value(), &msg); err != nil {
			continue
		}
		out = append(out, msg)
	}
	return out
}
