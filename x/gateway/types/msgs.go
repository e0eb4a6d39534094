package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrortypes "github.com/cosmos/cosmos-sdk/types/errors"
)

// MsgSubmitInstruction relays an attested instruction and, for funded
// instructions, its companion transfer.
type MsgSubmitInstruction struct {
	Sender         string `json:"sender"`
	InstructionVAA []byte `json:"instruction_vaa"`
	TransferVAA    []byte `json:"transfer_vaa,omitempty"`
}

// NewMsgSubmitInstruction creates a new MsgSubmitInstruction instance
func NewMsgSubmitInstruction(sender string, instructionVAA, transferVAA []byte) *MsgSubmitInstruction {
	return &MsgSubmitInstruction{Sender: sender, InstructionVAA: instructionVAA, TransferVAA: transferVAA}
}

// GetSigners returns the expected signers
func (msg MsgSubmitInstruction) GetSigners() []sdk.AccAddress {
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{sender}
}

// ValidateBasic performs stateless validation
func (msg MsgSubmitInstruction) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid sender address: %s", err)
	}
	if len(msg.InstructionVAA) == 0 {
		return sdkerrors.Wrap(sdkerrortypes.ErrInvalidRequest, "instruction VAA cannot be empty")
	}
	return nil
}

// MsgRegisterRemoteGateway trusts Address as the gateway of Chain.
type MsgRegisterRemoteGateway struct {
	Sender  string   `json:"sender"`
	Chain   uint16   `json:"chain"`
	Address [32]byte `json:"address"`
}

// GetSigners returns the expected signers
func (msg MsgRegisterRemoteGateway) GetSigners() []sdk.AccAddress {
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{sender}
}

// ValidateBasic performs stateless validation
func (msg MsgRegisterRemoteGateway) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid sender address: %s", err)
	}
	if msg.Chain == 0 {
		return sdkerrors.Wrap(sdkerrortypes.ErrInvalidRequest, "chain must be non-zero")
	}
	if msg.Address == ([32]byte{}) {
		return sdkerrors.Wrap(sdkerrortypes.ErrInvalidRequest, "address must be non-zero")
	}
	return nil
}

// MsgUpdateGatewayConfig transfers gateway ownership.
type MsgUpdateGatewayConfig struct {
	Sender string `json:"sender"`
	Owner  string `json:"owner"`
}

// GetSigners returns the expected signers
func (msg MsgUpdateGatewayConfig) GetSigners() []sdk.AccAddress {
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{sender}
}

// ValidateBasic performs stateless validation
func (msg MsgUpdateGatewayConfig) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid sender address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid owner address: %s", err)
	}
	return nil
}
