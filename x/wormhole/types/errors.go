package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Wormhole module sentinel errors
var (
	ErrInvalidVAA           = sdkerrors.Register(ModuleName, 2, "invalid VAA")
	ErrGuardianSetNotFound  = sdkerrors.Register(ModuleName, 3, "guardian set not found")
	ErrGuardianSetExpired   = sdkerrors.Register(ModuleName, 4, "guardian set expired")
	ErrNoQuorum             = sdkerrors.Register(ModuleName, 5, "no quorum")
	ErrInvalidSignature     = sdkerrors.Register(ModuleName, 6, "invalid guardian signature")
	ErrVAAAlreadyExecuted   = sdkerrors.Register(ModuleName, 7, "VAA already executed")
	ErrUnknownForeignBridge = sdkerrors.Register(ModuleName, 8, "unknown foreign token bridge")
	ErrInvalidTransfer      = sdkerrors.Register(ModuleName, 9, "invalid token transfer")
	ErrInsufficientDeposit  = sdkerrors.Register(ModuleName, 10, "insufficient deposited tokens")
	ErrInvalidGuardianSet   = sdkerrors.Register(ModuleName, 11, "invalid guardian set")
	ErrConfigNotFound       = sdkerrors.Register(ModuleName, 12, "wormhole config not set")
	ErrInvalidGenesis       = sdkerrors.Register(ModuleName, 13, "invalid genesis state")
)

// replayErrors maps sequence manager replays to ErrVAAAlreadyExecuted.
type replayErrors struct{}

func (replayErrors) ReplayError(msg string) error {
	return ErrVAAAlreadyExecuted.Wrap(msg)
}

// ExecutedErrors is the error provider of the executed-transfer set.
var ExecutedErrors = replayErrors{}
