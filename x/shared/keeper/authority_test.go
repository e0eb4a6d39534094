package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/crosslend/x/shared/keeper"
)

func TestValidateAuthority(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		wantErr  bool
	}{
		{
			name:     "valid authority match",
			expected: "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn",
			actual:   "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn",
		},
		{
			name:     "authority mismatch",
			expected: "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn",
			actual:   "cosmos1fl48vsnmsdzcv85q5d2q4z5ajdha8yu34mf0eh",
			wantErr:  true,
		},
		{
			name:     "empty actual authority",
			expected: "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn",
			actual:   "",
			wantErr:  true,
		},
		{
			name:     "unset owner never matches",
			expected: "",
			actual:   "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := keeper.ValidateAuthority(tt.expected, tt.actual)
			if tt.wantErr {
				require.ErrorIs(t, err, sdkerrors.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRequireCapability(t *testing.T) {
	owner := sdk.AccAddress("owner_______________")
	relay := sdk.AccAddress("relay_______________")
	stranger := sdk.AccAddress("stranger____________")

	whitelist := map[string]bool{relay.String(): true}
	trusted := keeper.GrantFunc(keeper.RoleTrustedRelay, func(a sdk.AccAddress) bool {
		return whitelist[a.String()]
	})

	require.NoError(t, keeper.RequireCapability(owner, keeper.Grant(keeper.RoleOwner, owner)))
	require.NoError(t, keeper.RequireCapability(relay, keeper.Grant(keeper.RoleOwner, owner), trusted))

	err := keeper.RequireCapability(stranger, keeper.Grant(keeper.RoleOwner, owner), trusted)
	require.ErrorIs(t, err, sdkerrors.ErrUnauthorized)
	require.Contains(t, err.Error(), "owner or trusted-relay")

	require.ErrorIs(t, keeper.RequireCapability(nil, keeper.Grant(keeper.RoleOwner, owner)), sdkerrors.ErrUnauthorized)
	require.ErrorIs(t, keeper.RequireCapability(owner, keeper.Grant(keeper.RoleOwner)), sdkerrors.ErrUnauthorized)
}
