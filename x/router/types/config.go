package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	proxytypes "github.com/paw-chain/crosslend/x/proxy/types"
)

// Config is the router configuration.
type Config struct {
	Owner       string                  `json:"owner"`
	ProxyCodeID uint64                  `json:"proxy_code_id"`
	Market      proxytypes.MarketConfig `json:"market"`
}

// Validate checks the config.
func (c Config) Validate() error {
	if _, err := sdk.AccAddressFromBech32(c.Owner); err != nil {
		return ErrInvalidConfig.Wrapf("owner: %s", err)
	}
	if c.ProxyCodeID == 0 {
		return ErrInvalidConfig.Wrap("proxy code id must be positive")
	}
	if err := c.Market.Validate(); err != nil {
		return ErrInvalidConfig.Wrapf("market: %s", err)
	}
	return nil
}

// PendingProvision is a proxy instantiation awaiting its reply.
type PendingProvision struct {
	CorrelationID uint64 `json:"correlation_id"`
	Chain         uint16 `json:"chain"`
	RemoteAddress []byte `json:"remote_address"`
}

// Remote returns the remote address as a fixed array.
func (p PendingProvision) Remote() [32]byte {
	var out [32]byte
	copy(out[:], p.RemoteAddress)
	return out
}

// ProxyEntry is one row of the proxy registry.
type ProxyEntry struct {
	Chain         uint16 `json:"chain"`
	RemoteAddress []byte `json:"remote_address"`
	Proxy         string `json:"proxy"`
}
