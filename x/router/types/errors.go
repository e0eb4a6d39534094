package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Router module sentinel errors
var (
	ErrNotWhitelisted           = sdkerrors.Register(ModuleName, 2, "caller is not a trusted relay")
	ErrProxyNotFound            = sdkerrors.Register(ModuleName, 3, "proxy not provisioned")
	ErrPendingProvisionNotFound = sdkerrors.Register(ModuleName, 4, "pending provisioning not found")
	ErrUnknownRelay             = sdkerrors.Register(ModuleName, 5, "no asset relay registered for caller")
	ErrInvalidConfig            = sdkerrors.Register(ModuleName, 6, "invalid router config")
	ErrInvalidAsset             = sdkerrors.Register(ModuleName, 7, "invalid asset for operation")
	ErrUpstream                 = sdkerrors.Register(ModuleName, 8, "upstream call failed")
	ErrInvalidGenesis           = sdkerrors.Register(ModuleName, 9, "invalid genesis state")
	ErrConfigNotFound           = sdkerrors.Register(ModuleName, 10, "router config not set")
)
