package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/wormhole/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the wormhole MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// RegisterForeignBridge handles trusting a remote token bridge
func (ms msgServer) RegisterForeignBridge(goCtx context.Context, msg *types.MsgRegisterForeignBridge) (*types.MsgRegisterForeignBridgeResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RegisterForeignBridge: validate: %w", err)
	}
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("RegisterForeignBridge: invalid sender address: %w", err)
	}
	if err := ms.Keeper.RegisterForeignBridge(goCtx, sender, msg.Chain, msg.Emitter); err != nil {
		return nil, fmt.Errorf("RegisterForeignBridge: %w", err)
	}
	return &types.MsgRegisterForeignBridgeResponse{}, nil
}

// UpdateGuardianSet handles guardian rotation
func (ms msgServer) UpdateGuardianSet(goCtx context.Context, msg *types.MsgUpdateGuardianSet) (*types.MsgUpdateGuardianSetResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateGuardianSet: validate: %w", err)
	}
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("UpdateGuardianSet: invalid sender address: %w", err)
	}
	index, err := ms.Keeper.UpdateGuardianSet(goCtx, sender, msg.Keys)
	if err != nil {
		return nil, fmt.Errorf("UpdateGuardianSet: %w", err)
	}
	return &types.MsgUpdateGuardianSetResponse{Index: index}, nil
}

// SubmitTransfer handles completing inbound transfers
func (ms msgServer) SubmitTransfer(goCtx context.Context, msg *types.MsgSubmitTransfer) (*types.MsgSubmitTransferResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SubmitTransfer: validate: %w", err)
	}
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("SubmitTransfer: invalid sender address: %w", err)
	}

	sdkCtx := sdk.UnwrapSDKContext(goCtx)
	cacheCtx, write := sdkCtx.CacheContext()
	if err := ms.Keeper.SubmitTransfer(cacheCtx, sender, msg.VAA); err != nil {
		return nil, fmt.Errorf("SubmitTransfer: %w", err)
	}
	write()
	return &types.MsgSubmitTransferResponse{}, nil
}
