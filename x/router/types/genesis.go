package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the router module genesis.
type GenesisState struct {
	Config            *Config      `json:"config,omitempty"`
	Bridges           []string     `json:"bridges"`
	Proxies           []ProxyEntry `json:"proxies"`
	NextCorrelationID uint64       `json:"next_correlation_id"`
}

// DefaultGenesis returns the default genesis state for the router module.
// The config is left unset and must be provided by the chain operator.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Bridges:           []string{},
		Proxies:           []ProxyEntry{},
		NextCorrelationID: 1,
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if gs.Config != nil {
		if err := gs.Config.Validate(); err != nil {
			return err
		}
	}
	for _, b := range gs.Bridges {
		if _, err := sdk.AccAddressFromBech32(b); err != nil {
			return ErrInvalidGenesis.Wrapf("bridge %q: %s", b, err)
		}
	}
	seen := make(map[string]struct{}, len(gs.Proxies))
	for _, p := range gs.Proxies {
		if len(p.RemoteAddress) != 32 {
			return ErrInvalidGenesis.Wrapf("remote address must be 32 bytes, got %d", len(p.RemoteAddress))
		}
		if _, err := sdk.AccAddressFromBech32(p.Proxy); err != nil {
			return ErrInvalidGenesis.Wrapf("proxy %q: %s", p.Proxy, err)
		}
		key := fmt.Sprintf("%d/%x", p.Chain, p.RemoteAddress)
		if _, dup := seen[key]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate proxy entry %s", key)
		}
		seen[key] = struct{}{}
	}
	if gs.NextCorrelationID == 0 {
		return ErrInvalidGenesis.Wrap("next correlation id must be positive")
	}
	return nil
}
