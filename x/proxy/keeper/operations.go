package keeper

import (
	"context"
	"fmt"
	"strconv"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/proxy/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// authorize loads the proxy and checks that caller is its admin or the proxy itself.
func (k Keeper) authorize(ctx context.Context, caller, proxy sdk.AccAddress) (types.Instance, error) {
	inst, err := k.mustInstance(ctx, proxy)
	if err != nil {
		return types.Instance{}, err
	}
	admin, err := sdk.AccAddressFromBech32(inst.Admin)
	if err != nil {
		return types.Instance{}, fmt.Errorf("stored admin: %w", err)
	}
	if err := sharedkeeper.RequireCapability(
		caller,
		sharedkeeper.Grant(sharedkeeper.RoleProxyAdmin, admin),
		sharedkeeper.Grant(sharedkeeper.RoleSelf, proxy),
	); err != nil {
		return types.Instance{}, err
	}
	return inst, nil
}

func (k Keeper) emitOperation(ctx context.Context, proxy sdk.AccAddress, op string, amount fmt.Stringer) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProxyOperation,
			sdk.NewAttribute(types.AttributeKeyProxy, proxy.String()),
			sdk.NewAttribute(types.AttributeKeyOperation, op),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
}

func upstream(op string, err error) error {
	return sdkerrors.Wrapf(types.ErrUpstream, "%s: %s", op, err)
}

// RepayStable repays the proxy's stable debt with funds already held by the proxy.
// The transfer tax of the repayment is deducted first.
func (k Keeper) RepayStable(ctx context.Context, caller, proxy sdk.AccAddress, funds sdk.Coin) error {
	inst, err := k.authorize(ctx, caller, proxy)
	if err != nil {
		return err
	}
	if funds.Denom != inst.Market.StableDenom {
		return types.ErrInvalidAsset.Wrapf("repay expects %s, got %s", inst.Market.StableDenom, funds.Denom)
	}

	net, err := k.ledger.PayTax(ctx, proxy, asset.FromCoin(funds))
	if err != nil {
		return err
	}
	coin, err := net.Coin()
	if err != nil {
		return err
	}
	if err := k.market.RepayStable(ctx, proxy, coin); err != nil {
		return upstream("repay stable", err)
	}

	k.emitOperation(ctx, proxy, "repay_stable", coin)
	return nil
}

// LockCollateral deposits collateral held by the proxy into the token custody
// and locks it against the proxy's position.
func (k Keeper) LockCollateral(ctx context.Context, caller, proxy sdk.AccAddress, collateral asset.Asset) error {
	if _, err := k.authorize(ctx, caller, proxy); err != nil {
		return err
	}
	if collateral.Info.IsNative() {
		return types.ErrInvalidAsset.Wrapf("collateral must be a token, got %s", collateral.Info.Denom)
	}
	if !collateral.Amount.IsPositive() {
		return types.ErrInvalidAsset.Wrap("collateral amount must be positive")
	}

	token := collateral.Info.Contract
	custody, err := k.market.CustodyForToken(ctx, token)
	if err != nil {
		return upstream("custody lookup", err)
	}
	if err := k.market.DepositCollateral(ctx, custody, proxy, token, collateral.Amount); err != nil {
		return upstream("deposit collateral", err)
	}
	if err := k.market.LockCollateral(ctx, proxy, token, collateral.Amount); err != nil {
		return upstream("lock collateral", err)
	}

	k.emitOperation(ctx, proxy, "lock_collateral", collateral)
	return nil
}

// UnlockCollateral unlocks and withdraws collateral, then forwards the
// withdrawn balance to `to`.
func (k Keeper) UnlockCollateral(ctx context.Context, caller, proxy sdk.AccAddress, token string, amount math.Int, to sdk.AccAddress) (asset.Asset, error) {
	if _, err := k.authorize(ctx, caller, proxy); err != nil {
		return asset.Asset{}, err
	}
	info := asset.TokenInfo(token)
	if err := info.Validate(); err != nil {
		return asset.Asset{}, err
	}

	return k.forwardOutput(ctx, proxy, info, to, "unlock_collateral", func() error {
		if err := k.market.UnlockCollateral(ctx, proxy, token, amount); err != nil {
			return upstream("unlock collateral", err)
		}
		custody, err := k.market.CustodyForToken(ctx, token)
		if err != nil {
			return upstream("custody lookup", err)
		}
		if err := k.market.WithdrawCollateral(ctx, custody, proxy, token, amount); err != nil {
			return upstream("withdraw collateral", err)
		}
		return nil
	})
}

// BorrowStable borrows against the proxy's collateral and forwards the
// borrowed stable to `to`.
func (k Keeper) BorrowStable(ctx context.Context, caller, proxy sdk.AccAddress, amount math.Int, to sdk.AccAddress) (asset.Asset, error) {
	inst, err := k.authorize(ctx, caller, proxy)
	if err != nil {
		return asset.Asset{}, err
	}

	return k.forwardOutput(ctx, proxy, asset.NativeInfo(inst.Market.StableDenom), to, "borrow_stable", func() error {
		if err := k.market.BorrowStable(ctx, proxy, amount); err != nil {
			return upstream("borrow stable", err)
		}
		return nil
	})
}

// ClaimRewards claims the proxy's rewards and forwards them to `to`.
func (k Keeper) ClaimRewards(ctx context.Context, caller, proxy sdk.AccAddress, to sdk.AccAddress) (asset.Asset, error) {
	inst, err := k.authorize(ctx, caller, proxy)
	if err != nil {
		return asset.Asset{}, err
	}

	return k.forwardOutput(ctx, proxy, asset.TokenInfo(inst.Market.RewardToken), to, "claim_rewards", func() error {
		if err := k.market.ClaimRewards(ctx, proxy); err != nil {
			return upstream("claim rewards", err)
		}
		return nil
	})
}

// StakeVotingTokens stakes governance tokens held by the proxy.
func (k Keeper) StakeVotingTokens(ctx context.Context, caller, proxy sdk.AccAddress, amount math.Int) error {
	if _, err := k.authorize(ctx, caller, proxy); err != nil {
		return err
	}
	if err := k.market.StakeVotingTokens(ctx, proxy, amount); err != nil {
		return upstream("stake voting tokens", err)
	}
	k.emitOperation(ctx, proxy, "stake_voting_tokens", amount)
	return nil
}

// WithdrawVotingTokens unstakes governance tokens back to the proxy.
func (k Keeper) WithdrawVotingTokens(ctx context.Context, caller, proxy sdk.AccAddress, amount math.Int) error {
	if _, err := k.authorize(ctx, caller, proxy); err != nil {
		return err
	}
	if err := k.market.WithdrawVotingTokens(ctx, proxy, amount); err != nil {
		return upstream("withdraw voting tokens", err)
	}
	k.emitOperation(ctx, proxy, "withdraw_voting_tokens", amount)
	return nil
}

// CastVote votes on a governance poll with the proxy's staked tokens.
func (k Keeper) CastVote(ctx context.Context, caller, proxy sdk.AccAddress, pollID uint64, vote string, amount math.Int) error {
	if _, err := k.authorize(ctx, caller, proxy); err != nil {
		return err
	}
	if err := k.market.CastVote(ctx, proxy, pollID, vote, amount); err != nil {
		return upstream("cast vote "+strconv.FormatUint(pollID, 10), err)
	}
	k.emitOperation(ctx, proxy, "cast_vote", amount)
	return nil
}

// forwardOutput snapshots the proxy's balance of info, runs op and forwards
// the resulting delta to `to`.
func (k Keeper) forwardOutput(
	ctx context.Context,
	proxy sdk.AccAddress,
	info asset.Info,
	to sdk.AccAddress,
	name string,
	op func() error,
) (asset.Asset, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	call, err := k.forward.Snapshot(sdkCtx, proxy, info, to)
	if err != nil {
		return asset.Asset{}, err
	}
	if err := op(); err != nil {
		return asset.Asset{}, err
	}
	out, err := k.forward.Forward(sdkCtx, proxy, call)
	if err != nil {
		return asset.Asset{}, err
	}

	k.emitOperation(ctx, proxy, name, out)
	return out, nil
}
