package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/router/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the router MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// AddBridges handles whitelisting trusted relays
func (ms msgServer) AddBridges(goCtx context.Context, msg *types.MsgAddBridges) (*types.MsgAddBridgesResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("AddBridges: validate: %w", err)
	}
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("AddBridges: invalid sender address: %w", err)
	}
	bridges := make([]sdk.AccAddress, 0, len(msg.Bridges))
	for _, b := range msg.Bridges {
		addr, err := sdk.AccAddressFromBech32(b)
		if err != nil {
			return nil, fmt.Errorf("AddBridges: invalid bridge address: %w", err)
		}
		bridges = append(bridges, addr)
	}

	added, err := ms.Keeper.AddBridges(goCtx, sender, bridges)
	if err != nil {
		return nil, fmt.Errorf("AddBridges: %w", err)
	}
	return &types.MsgAddBridgesResponse{Added: added}, nil
}

// UpdateConfig handles owner and proxy code id changes
func (ms msgServer) UpdateConfig(goCtx context.Context, msg *types.MsgUpdateConfig) (*types.MsgUpdateConfigResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateConfig: validate: %w", err)
	}
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("UpdateConfig: invalid sender address: %w", err)
	}
	if err := ms.Keeper.UpdateConfig(goCtx, sender, msg.Owner, msg.ProxyCodeID); err != nil {
		return nil, fmt.Errorf("UpdateConfig: %w", err)
	}
	return &types.MsgUpdateConfigResponse{}, nil
}

// StakeVotingTokens handles governance staking on behalf of a remote user
func (ms msgServer) StakeVotingTokens(goCtx context.Context, msg *types.MsgStakeVotingTokens) (*types.MsgStakeVotingTokensResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("StakeVotingTokens: validate: %w", err)
	}
	sender := msg.GetSigners()[0]
	cfg, err := ms.Keeper.GetConfig(goCtx)
	if err != nil {
		return nil, fmt.Errorf("StakeVotingTokens: %w", err)
	}
	funds := asset.NewToken(cfg.Market.RewardToken, msg.Amount)
	if err := ms.Keeper.StakeVotingTokens(goCtx, sender, msg.Origin(), funds); err != nil {
		return nil, fmt.Errorf("StakeVotingTokens: %w", err)
	}
	return &types.MsgStakeVotingTokensResponse{}, nil
}

// WithdrawVotingTokens handles governance unstaking on behalf of a remote user
func (ms msgServer) WithdrawVotingTokens(goCtx context.Context, msg *types.MsgWithdrawVotingTokens) (*types.MsgWithdrawVotingTokensResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("WithdrawVotingTokens: validate: %w", err)
	}
	if err := ms.Keeper.WithdrawVotingTokens(goCtx, msg.GetSigners()[0], msg.Origin(), msg.Amount); err != nil {
		return nil, fmt.Errorf("WithdrawVotingTokens: %w", err)
	}
	return &types.MsgWithdrawVotingTokensResponse{}, nil
}

// CastVote handles poll votes on behalf of a remote user
func (ms msgServer) CastVote(goCtx context.Context, msg *types.MsgCastVote) (*types.MsgCastVoteResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("CastVote: validate: %w", err)
	}
	if err := ms.Keeper.CastVote(goCtx, msg.GetSigners()[0], msg.Origin(), msg.PollID, msg.Vote, msg.Amount); err != nil {
		return nil, fmt.Errorf("CastVote: %w", err)
	}
	return &types.MsgCastVoteResponse{}, nil
}
