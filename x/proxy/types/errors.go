package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Proxy module sentinel errors
var (
	ErrProxyNotFound       = sdkerrors.Register(ModuleName, 2, "proxy not found")
	ErrAlreadyInstantiated = sdkerrors.Register(ModuleName, 3, "proxy already instantiated")
	ErrInvalidCodeID       = sdkerrors.Register(ModuleName, 4, "invalid proxy code id")
	ErrInvalidAsset        = sdkerrors.Register(ModuleName, 5, "invalid asset for operation")
	ErrUpstream            = sdkerrors.Register(ModuleName, 6, "money market call failed")
	ErrInvalidMarketConfig = sdkerrors.Register(ModuleName, 7, "invalid market config")
	ErrInvalidGenesis      = sdkerrors.Register(ModuleName, 8, "invalid genesis state")
)
