// Package keeper provides shared keeper interfaces and utilities for cross-module communication.
package keeper

import (
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// ValidateAuthority checks that the provided authority matches the expected authority.
// This is used for owner-only operations like config updates and registrations.
//
// Usage example:
//
//	if err := keeper.ValidateAuthority(cfg.Owner, msg.Sender); err != nil {
//	    return nil, err
//	}
func ValidateAuthority(expected, actual string) error {
	if expected == "" || expected != actual {
		return sdkerrors.ErrUnauthorized.Wrapf(
			"invalid authority; expected %s, got %s",
			expected,
			actual,
		)
	}
	return nil
}

// Role names a capability required by an entry point.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleTrustedRelay Role = "trusted-relay"
	RoleRouter       Role = "router"
	RoleProxyAdmin   Role = "proxy-admin"
	RoleSelf         Role = "self"
)

// Capability binds a role to the predicate deciding who holds it.
type Capability struct {
	Role  Role
	Holds func(sdk.AccAddress) bool
}

// Grant returns a capability held by exactly the given addresses.
func Grant(role Role, holders ...sdk.AccAddress) Capability {
	return Capability{
		Role: role,
		Holds: func(caller sdk.AccAddress) bool {
			for _, h := range holders {
				if len(h) > 0 && h.Equals(caller) {
					return true
				}
			}
			return false
		},
	}
}

// GrantFunc returns a capability backed by a lookup, e.g. a store-held whitelist.
func GrantFunc(role Role, holds func(sdk.AccAddress) bool) Capability {
	return Capability{Role: role, Holds: holds}
}

// RequireCapability passes when caller holds any of caps.
// Every entry point declares its required roles through this single check.
func RequireCapability(caller sdk.AccAddress, caps ...Capability) error {
	if caller.Empty() {
		return sdkerrors.ErrUnauthorized.Wrap("empty caller")
	}
	roles := make([]string, 0, len(caps))
	for _, c := range caps {
		if c.Holds != nil && c.Holds(caller) {
			return nil
		}
		roles = append(roles, string(c.Role))
	}
	return sdkerrors.ErrUnauthorized.Wrapf("%s does not hold role %s", caller, strings.Join(roles, " or "))
}
