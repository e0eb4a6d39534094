package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/router/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	"github.com/paw-chain/crosslend/x/shared/forward"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// Operation names used in events and metrics
const (
	OpDepositStable        = "deposit_stable"
	OpRedeemStable         = "redeem_stable"
	OpRepayStable          = "repay_stable"
	OpLockCollateral       = "lock_collateral"
	OpUnlockCollateral     = "unlock_collateral"
	OpBorrowStable         = "borrow_stable"
	OpClaimRewards         = "claim_rewards"
	OpStakeVotingTokens    = "stake_voting_tokens"
	OpWithdrawVotingTokens = "withdraw_voting_tokens"
	OpCastVote             = "cast_vote"
)

func (k Keeper) observe(op string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	k.metrics.Operations.WithLabelValues(op, status).Inc()
}

func (k Keeper) emitOperation(ctx context.Context, op string, origin sharedkeeper.Origin, amount fmt.Stringer) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOperation,
			sdk.NewAttribute(types.AttributeKeyOperation, op),
			sdk.NewAttribute(types.AttributeKeyOrigin, origin.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
}

// resolveProxy returns the proxy of the origin user, refreshed to the
// configured proxy code id.
func (k Keeper) resolveProxy(ctx context.Context, origin sharedkeeper.Origin) (sdk.AccAddress, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	proxy, found := k.GetProxyAddress(ctx, origin.Chain, origin.Sender)
	if !found {
		return nil, types.ErrProxyNotFound.Wrapf("%d/%x", origin.Chain, origin.Sender)
	}
	if err := k.proxyKeeper.Migrate(ctx, k.ModuleAddress(), proxy, cfg.ProxyCodeID); err != nil {
		return nil, types.ErrUpstream.Wrapf("migrate proxy: %s", err)
	}
	return proxy, nil
}

func (k Keeper) relayFor(caller sdk.AccAddress) (types.AssetRelay, error) {
	relay, ok := k.relays[caller.String()]
	if !ok {
		return nil, types.ErrUnknownRelay.Wrapf("%s", caller)
	}
	return relay, nil
}

// snapshotFor records the router's balance of info ahead of an operation
// whose output is owed to the origin user.
func (k Keeper) snapshotFor(ctx context.Context, caller sdk.AccAddress, info asset.Info) (types.AssetRelay, forward.Call, error) {
	relay, err := k.relayFor(caller)
	if err != nil {
		return nil, forward.Call{}, err
	}
	call, err := k.forward.Snapshot(sdk.UnwrapSDKContext(ctx), k.ModuleAddress(), info, caller)
	if err != nil {
		return nil, forward.Call{}, err
	}
	return relay, call, nil
}

// relayOutput forwards the router's balance gain to the caller and asks the
// caller's relay to send it to the origin chain.
func (k Keeper) relayOutput(ctx context.Context, op string, relay types.AssetRelay, fc forward.Call, origin sharedkeeper.Origin) error {
	router := k.ModuleAddress()
	out, err := k.forward.Forward(sdk.UnwrapSDKContext(ctx), router, fc)
	if err != nil {
		return err
	}
	k.emitOperation(ctx, op, origin, out)
	if !out.Amount.IsPositive() {
		k.Logger(ctx).Info("nothing to relay", "op", op, "origin", origin.String(), "asset", out.Info.String())
		return nil
	}
	if err := relay.SendAsset(ctx, router, origin, out); err != nil {
		return err
	}

	kind := "token"
	if out.Info.IsNative() {
		kind = "native"
	}
	k.metrics.AssetsRelayed.WithLabelValues(op, kind).Inc()
	return nil
}

// DepositStable deposits stable funds held by caller into the money market
// and relays the received aTokens to the origin user.
func (k Keeper) DepositStable(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, funds asset.Asset) (err error) {
	defer func() { k.observe(OpDepositStable, err) }()

	if err := k.requireTrustedRelay(ctx, caller); err != nil {
		return err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	if funds.Info != asset.NativeInfo(cfg.Market.StableDenom) || !funds.Amount.IsPositive() {
		return types.ErrInvalidAsset.Wrapf("deposit expects positive %s, got %s", cfg.Market.StableDenom, funds)
	}

	router := k.ModuleAddress()
	if err := k.ledger.Transfer(ctx, caller, router, funds); err != nil {
		return err
	}
	net, err := k.ledger.PayTax(ctx, router, funds)
	if err != nil {
		return err
	}
	coin, err := net.Coin()
	if err != nil {
		return err
	}

	relay, fc, err := k.snapshotFor(ctx, caller, asset.TokenInfo(cfg.Market.ATokenContract))
	if err != nil {
		return err
	}
	if err := k.market.DepositStable(ctx, router, coin); err != nil {
		return types.ErrUpstream.Wrapf("deposit stable: %s", err)
	}
	return k.relayOutput(ctx, OpDepositStable, relay, fc, origin)
}

// RedeemStable redeems aTokens held by caller and relays the stable proceeds
// to the origin user.
func (k Keeper) RedeemStable(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, funds asset.Asset) (err error) {
	defer func() { k.observe(OpRedeemStable, err) }()

	if err := k.requireTrustedRelay(ctx, caller); err != nil {
		return err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	if funds.Info != asset.TokenInfo(cfg.Market.ATokenContract) || !funds.Amount.IsPositive() {
		return types.ErrInvalidAsset.Wrapf("redeem expects positive %s, got %s", cfg.Market.ATokenContract, funds)
	}

	router := k.ModuleAddress()
	if err := k.ledger.Transfer(ctx, caller, router, funds); err != nil {
		return err
	}

	relay, fc, err := k.snapshotFor(ctx, caller, asset.NativeInfo(cfg.Market.StableDenom))
	if err != nil {
		return err
	}
	if err := k.market.RedeemStable(ctx, router, funds.Amount); err != nil {
		return types.ErrUpstream.Wrapf("redeem stable: %s", err)
	}
	return k.relayOutput(ctx, OpRedeemStable, relay, fc, origin)
}

// RepayStable repays the origin user's debt through their proxy.
func (k Keeper) RepayStable(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, funds asset.Asset) (err error) {
	defer func() { k.observe(OpRepayStable, err) }()

	if err := k.requireTrustedRelay(ctx, caller); err != nil {
		return err
	}
	coin, err := funds.Coin()
	if err != nil || !coin.IsPositive() {
		return types.ErrInvalidAsset.Wrapf("repay expects a positive native coin, got %s", funds)
	}
	proxy, err := k.resolveProxy(ctx, origin)
	if err != nil {
		return err
	}
	if err := k.ledger.Transfer(ctx, caller, proxy, funds); err != nil {
		return err
	}
	if err := k.proxyKeeper.RepayStable(ctx, k.ModuleAddress(), proxy, coin); err != nil {
		return err
	}
	k.emitOperation(ctx, OpRepayStable, origin, funds)
	return nil
}

// LockCollateral hands collateral held by caller to the origin user's proxy
// and locks it.
func (k Keeper) LockCollateral(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, collateral asset.Asset) (err error) {
	defer func() { k.observe(OpLockCollateral, err) }()

	if err := k.requireTrustedRelay(ctx, caller); err != nil {
		return err
	}
	if collateral.Info.IsNative() || !collateral.Amount.IsPositive() {
		return types.ErrInvalidAsset.Wrapf("collateral must be a positive token amount, got %s", collateral)
	}
	proxy, err := k.resolveProxy(ctx, origin)
	if err != nil {
		return err
	}
	if err := k.ledger.Transfer(ctx, caller, proxy, collateral); err != nil {
		return err
	}
	if err := k.proxyKeeper.LockCollateral(ctx, k.ModuleAddress(), proxy, collateral); err != nil {
		return err
	}
	k.emitOperation(ctx, OpLockCollateral, origin, collateral)
	return nil
}

// UnlockCollateral unlocks and withdraws collateral of the origin user and
// relays it back to them.
func (k Keeper) UnlockCollateral(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, token string, amount math.Int) (err error) {
	defer func() { k.observe(OpUnlockCollateral, err) }()

	if err := k.requireTrustedRelay(ctx, caller); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return types.ErrInvalidAsset.Wrap("unlock amount must be positive")
	}
	proxy, err := k.resolveProxy(ctx, origin)
	if err != nil {
		return err
	}
	relay, fc, err := k.snapshotFor(ctx, caller, asset.TokenInfo(token))
	if err != nil {
		return err
	}
	if _, err := k.proxyKeeper.UnlockCollateral(ctx, k.ModuleAddress(), proxy, token, amount, k.ModuleAddress()); err != nil {
		return err
	}
	return k.relayOutput(ctx, OpUnlockCollateral, relay, fc, origin)
}

// BorrowStable borrows stable against the origin user's collateral and
// relays it back to them.
func (k Keeper) BorrowStable(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, amount math.Int) (err error) {
	defer func() { k.observe(OpBorrowStable, err) }()

	if err := k.requireTrustedRelay(ctx, caller); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return types.ErrInvalidAsset.Wrap("borrow amount must be positive")
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	proxy, err := k.resolveProxy(ctx, origin)
	if err != nil {
		return err
	}
	relay, fc, err := k.snapshotFor(ctx, caller, asset.NativeInfo(cfg.Market.StableDenom))
	if err != nil {
		return err
	}
	if _, err := k.proxyKeeper.BorrowStable(ctx, k.ModuleAddress(), proxy, amount, k.ModuleAddress()); err != nil {
		return err
	}
	return k.relayOutput(ctx, OpBorrowStable, relay, fc, origin)
}

// ClaimRewards claims the origin user's rewards and relays them back.
func (k Keeper) ClaimRewards(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin) (err error) {
	defer func() { k.observe(OpClaimRewards, err) }()

	if err := k.requireTrustedRelay(ctx, caller); err != nil {
		return err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	proxy, err := k.resolveProxy(ctx, origin)
	if err != nil {
		return err
	}
	relay, fc, err := k.snapshotFor(ctx, caller, asset.TokenInfo(cfg.Market.RewardToken))
	if err != nil {
		return err
	}
	if _, err := k.proxyKeeper.ClaimRewards(ctx, k.ModuleAddress(), proxy, k.ModuleAddress()); err != nil {
		return err
	}
	return k.relayOutput(ctx, OpClaimRewards, relay, fc, origin)
}

// StakeVotingTokens stakes governance tokens held by caller through the
// origin user's proxy.
func (k Keeper) StakeVotingTokens(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, funds asset.Asset) (err error) {
	defer func() { k.observe(OpStakeVotingTokens, err) }()

	if err := k.requireTrustedRelay(ctx, caller); err != nil {
		return err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	if funds.Info != asset.TokenInfo(cfg.Market.RewardToken) || !funds.Amount.IsPositive() {
		return types.ErrInvalidAsset.Wrapf("stake expects positive %s, got %s", cfg.Market.RewardToken, funds)
	}
	proxy, err := k.resolveProxy(ctx, origin)
	if err != nil {
		return err
	}
	if err := k.ledger.Transfer(ctx, caller, proxy, funds); err != nil {
		return err
	}
	if err := k.proxyKeeper.StakeVotingTokens(ctx, k.ModuleAddress(), proxy, funds.Amount); err != nil {
		return err
	}
	k.emitOperation(ctx, OpStakeVotingTokens, origin, funds)
	return nil
}

// WithdrawVotingTokens unstakes governance tokens of the origin user's proxy.
func (k Keeper) WithdrawVotingTokens(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, amount math.Int) (err error) {
	defer func() { k.observe(OpWithdrawVotingTokens, err) }()

	if err := k.requireTrustedRelay(ctx, caller); err != nil {
		return err
	}
	proxy, err := k.resolveProxy(ctx, origin)
	if err != nil {
		return err
	}
	if err := k.proxyKeeper.WithdrawVotingTokens(ctx, k.ModuleAddress(), proxy, amount); err != nil {
		return err
	}
	k.emitOperation(ctx, OpWithdrawVotingTokens, origin, amount)
	return nil
}

// CastVote votes on a governance poll with the origin user's staked tokens.
func (k Keeper) CastVote(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, pollID uint64, vote string, amount math.Int) (err error) {
	defer func() { k.observe(OpCastVote, err) }()

	if err := k.requireTrustedRelay(ctx, caller); err != nil {
		return err
	}
	proxy, err := k.resolveProxy(ctx, origin)
	if err != nil {
		return err
	}
	if err := k.proxyKeeper.CastVote(ctx, k.ModuleAddress(), proxy, pollID, vote, amount); err != nil {
		return err
	}
	k.emitOperation(ctx, OpCastVote, origin, amount)
	return nil
}
