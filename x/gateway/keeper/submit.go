package keeper

import (
	"context"
	"encoding/hex"
	"errors"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.opentelemetry.io/otel/attribute"

	"github.com/paw-chain/crosslend/x/gateway/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
	"github.com/paw-chain/crosslend/x/shared/tracing"
	wormholetypes "github.com/paw-chain/crosslend/x/wormhole/types"
)

const (
	statusProcessed = "processed"
	statusRejected  = "rejected"
)

// SubmitInstruction verifies and executes an attested instruction relayed by
// relayer. Funded instructions need the attested companion transfer.
// Either every effect of the instruction is committed or none is.
func (k Keeper) SubmitInstruction(ctx context.Context, relayer sdk.AccAddress, instructionVAA, transferVAA []byte) (in types.Instruction, err error) {
	spanCtx, span := tracing.StartModuleSpan(ctx, types.ModuleName, "submit_instruction",
		attribute.String("relayer", relayer.String()),
		attribute.Bool("funded", len(transferVAA) > 0),
	)
	defer func() {
		span.SetAttributes(
			attribute.Int("chain", int(in.SenderChain)),
			attribute.Int64("sequence", int64(in.Sequence)),
		)
		tracing.End(span, err)
	}()

	sdkCtx := sdk.UnwrapSDKContext(ctx).WithContext(spanCtx)
	cacheCtx, write := sdkCtx.CacheContext()

	in, err = k.submit(cacheCtx, relayer, instructionVAA, transferVAA)
	if err != nil {
		k.reject(sdkCtx, in, err)
		return in, err
	}
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeInstructionProcessed,
			sdk.NewAttribute(types.AttributeKeyOpCode, in.OpCode.String()),
			sdk.NewAttribute(types.AttributeKeyChain, strconv.FormatUint(uint64(in.SenderChain), 10)),
			sdk.NewAttribute(types.AttributeKeySender, hex.EncodeToString(in.SenderAddress[:])),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(in.Sequence, 10)),
			sdk.NewAttribute(types.AttributeKeyHash, hex.EncodeToString(in.Hash)),
		),
	)
	k.metrics.Instructions.WithLabelValues(in.OpCode.String(), statusProcessed).Inc()
	k.Logger(ctx).Info("instruction processed", "instruction", in.String(), "relayer", relayer.String())
	return in, nil
}

func (k Keeper) reject(ctx context.Context, in types.Instruction, err error) {
	class := types.ErrorClass(err)
	op := "unknown"
	if _, ok := types.SchemaOf(in.OpCode); ok {
		op = in.OpCode.String()
	}
	k.metrics.Instructions.WithLabelValues(op, statusRejected).Inc()
	k.metrics.Rejections.WithLabelValues(class).Inc()

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeInstructionRejected,
			sdk.NewAttribute(types.AttributeKeyOpCode, op),
			sdk.NewAttribute(types.AttributeKeyChain, strconv.FormatUint(uint64(in.SenderChain), 10)),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(in.Sequence, 10)),
			sdk.NewAttribute(types.AttributeKeyClass, class),
		),
	)
	k.Logger(ctx).Error("instruction rejected", "op", op, "class", class, "error", err)
}

func (k Keeper) submit(ctx context.Context, relayer sdk.AccAddress, instructionVAA, transferVAA []byte) (types.Instruction, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Instruction{}, err
	}

	att, err := k.core.VerifyAttestation(ctx, instructionVAA)
	if err != nil {
		return types.Instruction{}, types.ErrAttestationInvalid.Wrapf("instruction: %s", err)
	}
	partial := types.Instruction{SenderChain: att.EmitterChain, Sequence: att.Sequence, Hash: att.Hash}

	registered, found := k.GetRemoteGateway(ctx, att.EmitterChain)
	if !found || registered != att.EmitterAddress {
		return partial, types.ErrUnknownEmitter.Wrapf("emitter %x on chain %d", att.EmitterAddress, att.EmitterChain)
	}
	if err := k.completed.MarkProcessed(sdk.UnwrapSDKContext(ctx), att.Hash); err != nil {
		return partial, err
	}
	in, err := types.InstructionFromAttestation(att)
	if err != nil {
		return partial, err
	}
	dir := in.Direction()

	var funds asset.Asset
	if dir.HasIncoming() {
		if len(transferVAA) == 0 {
			return in, types.ErrCorrelation.Wrapf("%s needs a companion transfer", in.OpCode)
		}
		if funds, err = k.validateIncoming(ctx, in, transferVAA, cfg.HostChain); err != nil {
			return in, err
		}
	}

	rec := types.SequenceRecord{OutgoingExpected: dir.HasOutgoing()}
	if err := k.setSequenceRecord(ctx, in.SenderChain, in.Sequence, rec); err != nil {
		return in, err
	}
	if dir.HasOutgoing() {
		k.setPendingTransfer(ctx, types.OutgoingTransferInfo{
			ChainID:             in.SenderChain,
			Recipient:           in.SenderAddress,
			OutgoingSequence:    k.core.NextSequence(ctx, wormholetypes.Bytes32(k.tokenBridge.Address())),
			InstructionSequence: in.Sequence,
		})
	}

	// Dispatch order: provision, complete the incoming transfer, route.
	if in.Schema().Provision {
		if err := k.router.InitializeProxy(ctx, k.ModuleAddress(), in.SenderChain, in.SenderAddress); err != nil {
			return in, err
		}
	}
	if dir.HasIncoming() {
		if funds, err = k.completeIncoming(ctx, relayer, funds, transferVAA); err != nil {
			return in, err
		}
	}
	if err := k.dispatch(ctx, in, funds); err != nil {
		return in, err
	}
	return in, nil
}

// validateIncoming verifies the companion transfer of in and returns the
// asset it carries to the gateway. Nothing is moved.
func (k Keeper) validateIncoming(ctx context.Context, in types.Instruction, raw []byte, hostChain uint16) (asset.Asset, error) {
	att, err := k.core.VerifyAttestation(ctx, raw)
	if err != nil {
		return asset.Asset{}, types.ErrAttestationInvalid.Wrapf("transfer: %s", err)
	}
	return types.IncomingTransfer(in, att, hostChain, wormholetypes.Bytes32(k.ModuleAddress()))
}

// completeIncoming redeems the validated transfer and returns the part of
// funds handed on to the router. Native funds are taxed on release to the
// gateway and again on the gateway to router hop, which the gateway pays.
func (k Keeper) completeIncoming(ctx context.Context, relayer sdk.AccAddress, funds asset.Asset, raw []byte) (asset.Asset, error) {
	if err := k.tokenBridge.SubmitTransfer(ctx, relayer, raw); err != nil {
		if !errors.Is(err, wormholetypes.ErrVAAAlreadyExecuted) {
			return asset.Asset{}, types.ErrUpstream.Wrapf("complete transfer: %s", err)
		}
		// Anyone may complete a transfer; custody was already released to us.
		k.metrics.TolerantSubmits.Inc()
	}
	if !funds.Info.IsNative() {
		return funds, nil
	}
	held, err := k.ledger.DeductTax(ctx, funds)
	if err != nil {
		return asset.Asset{}, err
	}
	return k.ledger.PayTax(ctx, k.ModuleAddress(), held)
}

// dispatch runs the router operation of in.
func (k Keeper) dispatch(ctx context.Context, in types.Instruction, funds asset.Asset) error {
	caller := k.ModuleAddress()
	origin := in.Origin()

	switch in.OpCode {
	case types.OpDepositStable:
		return k.router.DepositStable(ctx, caller, origin, funds)
	case types.OpRedeemStable:
		return k.router.RedeemStable(ctx, caller, origin, funds)
	case types.OpRepayStable:
		return k.router.RepayStable(ctx, caller, origin, funds)
	case types.OpLockCollateral:
		return k.router.LockCollateral(ctx, caller, origin, funds)
	case types.OpUnlockCollateral:
		body, ok := in.Body.(types.UnlockCollateralBody)
		if !ok {
			return types.ErrInvalidInstruction.Wrapf("%s body", in.OpCode)
		}
		info, err := wormholetypes.AssetInfoFromTokenAddress(body.Token)
		if err != nil || info.IsNative() {
			return types.ErrInvalidInstruction.Wrapf("collateral %x is not a token", body.Token)
		}
		return k.router.UnlockCollateral(ctx, caller, origin, info.Contract, body.Amount)
	case types.OpBorrowStable:
		body, ok := in.Body.(types.BorrowStableBody)
		if !ok {
			return types.ErrInvalidInstruction.Wrapf("%s body", in.OpCode)
		}
		return k.router.BorrowStable(ctx, caller, origin, body.Amount)
	case types.OpClaimRewards:
		return k.router.ClaimRewards(ctx, caller, origin)
	default:
		return types.ErrInvalidInstruction.Wrapf("unhandled opcode %s", in.OpCode)
	}
}

var _ sharedkeeper.AssetRelayV1 = Keeper{}
