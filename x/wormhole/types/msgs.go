package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrortypes "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
)

// MsgRegisterForeignBridge trusts a remote token bridge emitter.
type MsgRegisterForeignBridge struct {
	Sender  string   `json:"sender"`
	Chain   uint16   `json:"chain"`
	Emitter [32]byte `json:"emitter"`
}

// GetSigners returns the expected signers
func (msg MsgRegisterForeignBridge) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(msg.Sender)}
}

// ValidateBasic performs stateless validation
func (msg MsgRegisterForeignBridge) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid sender address: %s", err)
	}
	if msg.Chain == 0 {
		return sdkerrors.Wrap(sdkerrortypes.ErrInvalidRequest, "chain must be non-zero")
	}
	if msg.Emitter == ([32]byte{}) {
		return sdkerrors.Wrap(sdkerrortypes.ErrInvalidRequest, "emitter must be non-zero")
	}
	return nil
}

// MsgUpdateGuardianSet replaces the active guardian set.
type MsgUpdateGuardianSet struct {
	Sender string   `json:"sender"`
	Keys   []string `json:"keys"`
}

// GetSigners returns the expected signers
func (msg MsgUpdateGuardianSet) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(msg.Sender)}
}

// ValidateBasic performs stateless validation
func (msg MsgUpdateGuardianSet) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid sender address: %s", err)
	}
	if len(msg.Keys) == 0 {
		return sdkerrors.Wrap(sdkerrortypes.ErrInvalidRequest, "no guardian keys")
	}
	for _, k := range msg.Keys {
		if !common.IsHexAddress(k) {
			return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidRequest, "malformed guardian key %q", k)
		}
	}
	return nil
}

// MsgSubmitTransfer completes an inbound token transfer VAA.
type MsgSubmitTransfer struct {
	Sender string `json:"sender"`
	VAA    []byte `json:"vaa"`
}

// GetSigners returns the expected signers
func (msg MsgSubmitTransfer) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{sdk.MustAccAddressFromBech32(msg.Sender)}
}

// ValidateBasic performs stateless validation
func (msg MsgSubmitTransfer) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid sender address: %s", err)
	}
	if len(msg.VAA) == 0 {
		return sdkerrors.Wrap(sdkerrortypes.ErrInvalidRequest, "empty VAA")
	}
	return nil
}
