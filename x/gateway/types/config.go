package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Config holds the gateway settings.
type Config struct {
	Owner string `json:"owner"`
	// HostChain is the attestation network id of this chain.
	HostChain uint16 `json:"host_chain"`
}

// Validate checks the config fields.
func (c Config) Validate() error {
	if _, err := sdk.AccAddressFromBech32(c.Owner); err != nil {
		return ErrInvalidConfig.Wrapf("owner: %s", err)
	}
	if c.HostChain == 0 {
		return ErrInvalidConfig.Wrap("host chain must be non-zero")
	}
	return nil
}
