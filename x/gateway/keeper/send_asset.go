package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.opentelemetry.io/otel/attribute"

	"github.com/paw-chain/crosslend/x/gateway/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
	"github.com/paw-chain/crosslend/x/shared/tracing"
	wormholetypes "github.com/paw-chain/crosslend/x/wormhole/types"
)

// SendAsset relays a, already held by the gateway, back to the remote user of
// origin. It posts the token transfer followed by the OutgoingTransferInfo
// correlating it with the instruction. Only the router may call it.
func (k Keeper) SendAsset(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, a asset.Asset) (err error) {
	spanCtx, span := tracing.StartModuleSpan(ctx, types.ModuleName, "send_asset",
		attribute.String("origin", origin.String()),
		attribute.String("asset", a.Info.String()),
	)
	defer func() { tracing.End(span, err) }()
	ctx = sdk.UnwrapSDKContext(ctx).WithContext(spanCtx)

	if err := sharedkeeper.RequireCapability(caller, sharedkeeper.Grant(sharedkeeper.RoleRouter, k.router.ModuleAddress())); err != nil {
		return err
	}
	pending, found := k.GetPendingTransfer(ctx, origin.Chain, origin.Sequence)
	if !found {
		return types.ErrPendingTransferNotFound.Wrapf("instruction %s", origin)
	}
	remote, found := k.GetRemoteGateway(ctx, pending.ChainID)
	if !found {
		return types.ErrUnknownEmitter.Wrapf("no gateway registered for chain %d", pending.ChainID)
	}

	gateway := k.ModuleAddress()
	out := a
	if out.Info.IsNative() {
		var err error
		if out, err = k.ledger.PayTax(ctx, gateway, a); err != nil {
			return err
		}
		coin, err := out.Coin()
		if err != nil {
			return err
		}
		if err := k.tokenBridge.DepositTokens(ctx, gateway, coin); err != nil {
			return types.ErrUpstream.Wrapf("deposit tokens: %s", err)
		}
	} else {
		if err := k.ledger.Approve(ctx, gateway, k.tokenBridge.Address(), out); err != nil {
			return err
		}
	}

	infoSeq := k.core.NextSequence(ctx, wormholetypes.Bytes32(gateway))
	if err := k.setSequenceRecord(ctx, pending.ChainID, pending.InstructionSequence, types.SequenceRecord{
		OutgoingExpected: true,
		OutgoingSequence: &infoSeq,
	}); err != nil {
		return err
	}

	transferSeq, err := k.tokenBridge.InitiateTransfer(ctx, gateway, out, pending.ChainID, remote, math.ZeroInt(), types.TransferNonce)
	if err != nil {
		return types.ErrUpstream.Wrapf("initiate transfer: %s", err)
	}
	pending.OutgoingSequence = transferSeq
	posted, err := k.core.PostMessage(ctx, gateway, pending.Encode(), types.TransferInfoNonce)
	if err != nil {
		return types.ErrUpstream.Wrapf("post transfer info: %s", err)
	}
	if posted != infoSeq {
		return types.ErrCorrelation.Wrapf("transfer info posted at %d, recorded %d", posted, infoSeq)
	}
	k.deletePendingTransfer(ctx, pending.ChainID, pending.InstructionSequence)

	kind := "token"
	if out.Info.IsNative() {
		kind = "native"
	}
	chain := strconv.FormatUint(uint64(pending.ChainID), 10)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOutboundTransfer,
			sdk.NewAttribute(types.AttributeKeyChain, chain),
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(pending.InstructionSequence, 10)),
			sdk.NewAttribute(types.AttributeKeyAsset, out.String()),
			sdk.NewAttribute(types.AttributeKeyTransferSequence, strconv.FormatUint(transferSeq, 10)),
			sdk.NewAttribute(types.AttributeKeyInfoSequence, strconv.FormatUint(infoSeq, 10)),
		),
	)
	k.metrics.OutboundTransfers.WithLabelValues(chain, kind).Inc()
	k.Logger(ctx).Info("asset relayed",
		"origin", origin.String(),
		"asset", out.String(),
		"transfer_sequence", transferSeq,
		"info_sequence", infoSeq,
	)
	return nil
}
