package keeper

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/shared/asset"
	"github.com/paw-chain/crosslend/x/wormhole/types"
)

// RegisterForeignBridge trusts emitter as the token bridge of chain.
func (k Keeper) RegisterForeignBridge(ctx context.Context, caller sdk.AccAddress, chain uint16, emitter [32]byte) error {
	cfg, err := k.requireOwner(ctx, caller)
	if err != nil {
		return err
	}
	if chain == 0 || chain == cfg.HostChain {
		return types.ErrUnknownForeignBridge.Wrapf("cannot register chain %d", chain)
	}
	k.setForeignBridge(ctx, types.ForeignBridge{Chain: chain, Emitter: emitter})
	k.Logger(ctx).Info("foreign bridge registered", "chain", chain, "emitter", hex.EncodeToString(emitter[:]))
	return nil
}

func (k Keeper) setForeignBridge(ctx context.Context, fb types.ForeignBridge) {
	k.getStore(ctx).Set(types.GetForeignBridgeKey(fb.Chain), fb.Emitter[:])
}

// GetForeignBridge returns the token bridge emitter trusted for chain.
func (k Keeper) GetForeignBridge(ctx context.Context, chain uint16) ([32]byte, bool) {
	var out [32]byte
	bz := k.getStore(ctx).Get(types.GetForeignBridgeKey(chain))
	if len(bz) != 32 {
		return out, false
	}
	copy(out[:], bz)
	return out, true
}

// GetAllForeignBridges returns every registered remote token bridge.
func (k Keeper) GetAllForeignBridges(ctx context.Context) []types.ForeignBridge {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ForeignBridgePrefix)
	defer iterator.Close()

	var out []types.ForeignBridge
	for ; iterator.Valid(); iterator.Next() {
		fb := types.ForeignBridge{Chain: binary.BigEndian.Uint16(iterator.Key()[len(types.ForeignBridgePrefix):])}
		copy(fb.Emitter[:], iterator.Value())
		out = append(out, fb)
	}
	return out
}

// GetDeposit returns the native amount depositor has deposited and not yet sent.
func (k Keeper) GetDeposit(ctx context.Context, depositor sdk.AccAddress, denom string) math.Int {
	bz := k.getStore(ctx).Get(types.GetDepositKey(depositor, denom))
	if bz == nil {
		return math.ZeroInt()
	}
	var amt math.Int
	if err := amt.Unmarshal(bz); err != nil {
		return math.ZeroInt()
	}
	return amt
}

func (k Keeper) setDeposit(ctx context.Context, depositor sdk.AccAddress, denom string, amt math.Int) error {
	key := types.GetDepositKey(depositor, denom)
	if amt.IsZero() {
		k.getStore(ctx).Delete(key)
		return nil
	}
	bz, err := amt.Marshal()
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(key, bz)
	return nil
}

// DepositTokens moves native coin from depositor into bridge custody, to be
// spent by a later InitiateTransfer of the same depositor.
func (k Keeper) DepositTokens(ctx context.Context, depositor sdk.AccAddress, coin sdk.Coin) error {
	if !coin.IsValid() || !coin.IsPositive() {
		return types.ErrInvalidTransfer.Wrapf("invalid deposit %s", coin)
	}
	if err := k.ledger.Transfer(ctx, depositor, k.Address(), asset.FromCoin(coin)); err != nil {
		return err
	}
	total := k.GetDeposit(ctx, depositor, coin.Denom).Add(coin.Amount)
	return k.setDeposit(ctx, depositor, coin.Denom, total)
}

// InitiateTransfer locks a in custody and posts a transfer message towards
// recipient on recipientChain. Native assets are spent from the sender's
// deposit; tokens are pulled through the sender's allowance.
func (k Keeper) InitiateTransfer(
	ctx context.Context,
	sender sdk.AccAddress,
	a asset.Asset,
	recipientChain uint16,
	recipient [32]byte,
	fee math.Int,
	nonce uint32,
) (uint64, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return 0, err
	}
	if err := a.Validate(); err != nil || !a.Amount.IsPositive() {
		return 0, types.ErrInvalidTransfer.Wrapf("invalid asset %s", a)
	}
	if recipientChain == cfg.HostChain || recipientChain == 0 {
		return 0, types.ErrInvalidTransfer.Wrapf("invalid recipient chain %d", recipientChain)
	}
	tokenAddress, err := types.TokenAddress(a.Info)
	if err != nil {
		return 0, err
	}
	payload := types.TransferPayload{
		Amount:         a.Amount,
		TokenAddress:   tokenAddress,
		TokenChain:     cfg.HostChain,
		Recipient:      recipient,
		RecipientChain: recipientChain,
		Fee:            fee,
	}
	bz, err := payload.Encode()
	if err != nil {
		return 0, err
	}

	if a.Info.IsNative() {
		deposited := k.GetDeposit(ctx, sender, a.Info.Denom)
		if deposited.LT(a.Amount) {
			return 0, types.ErrInsufficientDeposit.Wrapf("deposited %s%s, sending %s", deposited, a.Info.Denom, a)
		}
		if err := k.setDeposit(ctx, sender, a.Info.Denom, deposited.Sub(a.Amount)); err != nil {
			return 0, err
		}
	} else {
		if err := k.ledger.TransferFrom(ctx, k.Address(), sender, k.Address(), a); err != nil {
			return 0, err
		}
	}

	seq, err := k.PostMessage(ctx, k.Address(), bz, nonce)
	if err != nil {
		return 0, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransferInitiated,
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(seq, 10)),
			sdk.NewAttribute(types.AttributeKeyChain, strconv.FormatUint(uint64(recipientChain), 10)),
			sdk.NewAttribute(types.AttributeKeyRecipient, hex.EncodeToString(recipient[:])),
			sdk.NewAttribute(types.AttributeKeyAmount, a.String()),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
		),
	)
	k.metrics.TransfersInitiated.WithLabelValues(strconv.FormatUint(uint64(recipientChain), 10)).Inc()
	return seq, nil
}

// SubmitTransfer completes an inbound transfer VAA, releasing custody to the
// recipient and the relayer fee to submitter. A VAA completes at most once;
// later submissions fail with ErrVAAAlreadyExecuted.
func (k Keeper) SubmitTransfer(ctx context.Context, submitter sdk.AccAddress, raw []byte) error {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	att, err := k.VerifyAttestation(ctx, raw)
	if err != nil {
		return err
	}
	expected, found := k.GetForeignBridge(ctx, att.EmitterChain)
	if !found || expected != att.EmitterAddress {
		return types.ErrUnknownForeignBridge.Wrapf("emitter %d/%x", att.EmitterChain, att.EmitterAddress)
	}
	if err := k.executed.MarkProcessed(sdk.UnwrapSDKContext(ctx), att.Hash); err != nil {
		return err
	}

	p, err := types.DecodeTransferPayload(att.Payload)
	if err != nil {
		return err
	}
	if p.RecipientChain != cfg.HostChain {
		return types.ErrInvalidTransfer.Wrapf("recipient chain %d is not the host chain", p.RecipientChain)
	}
	if p.TokenChain != cfg.HostChain {
		return types.ErrInvalidTransfer.Wrapf("token chain %d is not the host chain", p.TokenChain)
	}
	info, err := types.AssetInfoFromTokenAddress(p.TokenAddress)
	if err != nil {
		return err
	}
	recipient := types.AccAddressFromBytes32(p.Recipient)

	released, err := k.ledger.PayTax(ctx, k.Address(), asset.Asset{Info: info, Amount: p.Net()})
	if err != nil {
		return err
	}
	if err := k.ledger.Transfer(ctx, k.Address(), recipient, released); err != nil {
		return err
	}
	if p.Fee.IsPositive() {
		if err := k.ledger.Transfer(ctx, k.Address(), submitter, asset.Asset{Info: info, Amount: p.Fee}); err != nil {
			return err
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransferCompleted,
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(att.Sequence, 10)),
			sdk.NewAttribute(types.AttributeKeyChain, strconv.FormatUint(uint64(att.EmitterChain), 10)),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, released.String()),
			sdk.NewAttribute(types.AttributeKeyFee, p.Fee.String()),
		),
	)
	k.metrics.TransfersCompleted.WithLabelValues(strconv.FormatUint(uint64(att.EmitterChain), 10)).Inc()
	k.Logger(ctx).Info("transfer completed", "chain", att.EmitterChain, "sequence", att.Sequence, "recipient", recipient.String(), "amount", released.String())
	return nil
}
