package types

import (
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrortypes "github.com/cosmos/cosmos-sdk/types/errors"

	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// MsgAddBridges adds trusted relays to the router whitelist.
type MsgAddBridges struct {
	Sender  string   `json:"sender"`
	Bridges []string `json:"bridges"`
}

// NewMsgAddBridges creates a new MsgAddBridges instance
func NewMsgAddBridges(sender string, bridges ...string) *MsgAddBridges {
	return &MsgAddBridges{Sender: sender, Bridges: bridges}
}

// GetSigners returns the expected signers
func (msg MsgAddBridges) GetSigners() []sdk.AccAddress {
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{sender}
}

// ValidateBasic performs stateless validation
func (msg MsgAddBridges) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid sender address: %s", err)
	}
	if len(msg.Bridges) == 0 {
		return sdkerrors.Wrap(sdkerrortypes.ErrInvalidRequest, "no bridges given")
	}
	for _, b := range msg.Bridges {
		if _, err := sdk.AccAddressFromBech32(b); err != nil {
			return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid bridge address %q: %s", b, err)
		}
	}
	return nil
}

// MsgUpdateConfig changes the router owner and/or the proxy code id.
// Zero values leave the field unchanged.
type MsgUpdateConfig struct {
	Sender      string `json:"sender"`
	Owner       string `json:"owner,omitempty"`
	ProxyCodeID uint64 `json:"proxy_code_id,omitempty"`
}

// NewMsgUpdateConfig creates a new MsgUpdateConfig instance
func NewMsgUpdateConfig(sender, owner string, proxyCodeID uint64) *MsgUpdateConfig {
	return &MsgUpdateConfig{Sender: sender, Owner: owner, ProxyCodeID: proxyCodeID}
}

// GetSigners returns the expected signers
func (msg MsgUpdateConfig) GetSigners() []sdk.AccAddress {
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{sender}
}

// ValidateBasic performs stateless validation
func (msg MsgUpdateConfig) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid sender address: %s", err)
	}
	if msg.Owner != "" {
		if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
			return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid owner address: %s", err)
		}
	}
	if msg.Owner == "" && msg.ProxyCodeID == 0 {
		return sdkerrors.Wrap(sdkerrortypes.ErrInvalidRequest, "nothing to update")
	}
	return nil
}

// GovernanceOrigin names the remote user a whitelisted bridge acts for.
type GovernanceOrigin struct {
	Sender        string `json:"sender"`
	Chain         uint16 `json:"chain"`
	RemoteAddress []byte `json:"remote_address"`
	Sequence      uint64 `json:"sequence"`
}

// Origin returns the remote user as an instruction origin.
func (g GovernanceOrigin) Origin() sharedkeeper.Origin {
	o := sharedkeeper.Origin{Chain: g.Chain, Sequence: g.Sequence}
	copy(o.Sender[:], g.RemoteAddress)
	return o
}

// GetSigners returns the expected signers
func (g GovernanceOrigin) GetSigners() []sdk.AccAddress {
	sender, err := sdk.AccAddressFromBech32(g.Sender)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{sender}
}

func (g GovernanceOrigin) validate() error {
	if _, err := sdk.AccAddressFromBech32(g.Sender); err != nil {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidAddress, "invalid sender address: %s", err)
	}
	if g.Chain == 0 {
		return sdkerrors.Wrap(sdkerrortypes.ErrInvalidRequest, "chain must be set")
	}
	if len(g.RemoteAddress) != 32 {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidRequest, "remote address is %d bytes, want 32", len(g.RemoteAddress))
	}
	return nil
}

func validatePositive(amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return sdkerrors.Wrap(sdkerrortypes.ErrInvalidRequest, "amount must be positive")
	}
	return nil
}

// MsgStakeVotingTokens stakes governance tokens held by the sending bridge
// through the remote user's proxy.
type MsgStakeVotingTokens struct {
	GovernanceOrigin
	Amount math.Int `json:"amount"`
}

// ValidateBasic performs stateless validation
func (msg MsgStakeVotingTokens) ValidateBasic() error {
	if err := msg.validate(); err != nil {
		return err
	}
	return validatePositive(msg.Amount)
}

// MsgWithdrawVotingTokens unstakes governance tokens of the remote user's proxy.
type MsgWithdrawVotingTokens struct {
	GovernanceOrigin
	Amount math.Int `json:"amount"`
}

// ValidateBasic performs stateless validation
func (msg MsgWithdrawVotingTokens) ValidateBasic() error {
	if err := msg.validate(); err != nil {
		return err
	}
	return validatePositive(msg.Amount)
}

// Votes accepted by MsgCastVote
var Votes = map[string]bool{"yes": true, "no": true, "abstain": true}

// MsgCastVote votes on a money market poll with the proxy's staked tokens.
type MsgCastVote struct {
	GovernanceOrigin
	PollID uint64   `json:"poll_id"`
	Vote   string   `json:"vote"`
	Amount math.Int `json:"amount"`
}

// ValidateBasic performs stateless validation
func (msg MsgCastVote) ValidateBasic() error {
	if err := msg.validate(); err != nil {
		return err
	}
	if !Votes[msg.Vote] {
		return sdkerrors.Wrapf(sdkerrortypes.ErrInvalidRequest, "unknown vote %q", msg.Vote)
	}
	return validatePositive(msg.Amount)
}
