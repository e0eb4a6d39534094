package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/wormhole-foundation/wormhole/sdk/vaa"
)

// GuardianSet is an indexed list of guardian signing addresses.
type GuardianSet struct {
	Index uint32 `json:"index"`
	// Keys are hex encoded Ethereum addresses.
	Keys []string `json:"keys"`
	// ExpirationTime is a unix time after which the set no longer verifies; 0 never expires.
	ExpirationTime uint64 `json:"expiration_time"`
}

// NewGuardianSet builds a non-expiring set from guardian addresses.
func NewGuardianSet(index uint32, addrs ...common.Address) GuardianSet {
	keys := make([]string, len(addrs))
	for i, a := range addrs {
		keys[i] = a.Hex()
	}
	return GuardianSet{Index: index, Keys: keys}
}

// Addresses returns the parsed guardian addresses.
func (gs GuardianSet) Addresses() []common.Address {
	out := make([]common.Address, len(gs.Keys))
	for i, k := range gs.Keys {
		out[i] = common.HexToAddress(k)
	}
	return out
}

// Quorum is the number of signatures required by the set.
func (gs GuardianSet) Quorum() int {
	return vaa.CalculateQuorum(len(gs.Keys))
}

// ExpiredAt reports whether the set has expired at unix time now.
func (gs GuardianSet) ExpiredAt(now uint64) bool {
	return gs.ExpirationTime != 0 && now > gs.ExpirationTime
}

// Validate checks the set is non-empty with unique well-formed keys.
func (gs GuardianSet) Validate() error {
	if len(gs.Keys) == 0 {
		return ErrInvalidGuardianSet.Wrap("no guardians")
	}
	if len(gs.Keys) > 255 {
		return ErrInvalidGuardianSet.Wrapf("%d guardians exceed the signature index range", len(gs.Keys))
	}
	seen := make(map[string]struct{}, len(gs.Keys))
	for _, k := range gs.Keys {
		if !common.IsHexAddress(k) {
			return ErrInvalidGuardianSet.Wrapf("malformed guardian key %q", k)
		}
		norm := strings.ToLower(common.HexToAddress(k).Hex())
		if _, dup := seen[norm]; dup {
			return ErrInvalidGuardianSet.Wrapf("duplicate guardian key %s", k)
		}
		seen[norm] = struct{}{}
	}
	return nil
}
