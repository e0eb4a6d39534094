package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/gateway/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the gateway MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// SubmitInstruction handles relaying an attested instruction
func (ms msgServer) SubmitInstruction(goCtx context.Context, msg *types.MsgSubmitInstruction) (*types.MsgSubmitInstructionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SubmitInstruction: validate: %w", err)
	}
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("SubmitInstruction: invalid sender address: %w", err)
	}
	if _, err := ms.Keeper.SubmitInstruction(goCtx, sender, msg.InstructionVAA, msg.TransferVAA); err != nil {
		return nil, fmt.Errorf("SubmitInstruction: %w", err)
	}
	return &types.MsgSubmitInstructionResponse{}, nil
}

// RegisterRemoteGateway handles trusting a remote gateway
func (ms msgServer) RegisterRemoteGateway(goCtx context.Context, msg *types.MsgRegisterRemoteGateway) (*types.MsgRegisterRemoteGatewayResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RegisterRemoteGateway: validate: %w", err)
	}
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("RegisterRemoteGateway: invalid sender address: %w", err)
	}
	if err := ms.Keeper.RegisterRemoteGateway(goCtx, sender, msg.Chain, msg.Address); err != nil {
		return nil, fmt.Errorf("RegisterRemoteGateway: %w", err)
	}
	return &types.MsgRegisterRemoteGatewayResponse{}, nil
}

// UpdateConfig handles gateway ownership transfer
func (ms msgServer) UpdateConfig(goCtx context.Context, msg *types.MsgUpdateGatewayConfig) (*types.MsgUpdateGatewayConfigResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateConfig: validate: %w", err)
	}
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return nil, fmt.Errorf("UpdateConfig: invalid sender address: %w", err)
	}
	if err := ms.Keeper.UpdateOwner(goCtx, sender, msg.Owner); err != nil {
		return nil, fmt.Errorf("UpdateConfig: %w", err)
	}
	return &types.MsgUpdateGatewayConfigResponse{}, nil
}
