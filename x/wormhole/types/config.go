package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DefaultGuardianSetExpiry is how long a replaced guardian set keeps verifying.
const DefaultGuardianSetExpiry uint64 = 24 * 60 * 60

// Config holds the attestation network settings of the host chain.
type Config struct {
	Owner string `json:"owner"`
	// HostChain is the network id of this chain.
	HostChain uint16 `json:"host_chain"`
	// GuardianSetExpiry is the grace period in seconds of a replaced set.
	GuardianSetExpiry uint64 `json:"guardian_set_expiry"`
}

// Validate checks the config fields.
func (c Config) Validate() error {
	if _, err := sdk.AccAddressFromBech32(c.Owner); err != nil {
		return ErrInvalidGenesis.Wrapf("owner: %s", err)
	}
	if c.HostChain == 0 {
		return ErrInvalidGenesis.Wrap("host chain must be non-zero")
	}
	return nil
}

// MessagePublication is a message posted through the core bridge.
type MessagePublication struct {
	Emitter   [32]byte `json:"emitter"`
	Sequence  uint64   `json:"sequence"`
	Nonce     uint32   `json:"nonce"`
	Timestamp int64    `json:"timestamp"`
	Payload   []byte   `json:"payload"`
}

// ForeignBridge is a remote token bridge trusted to emit transfers.
type ForeignBridge struct {
	Chain   uint16   `json:"chain"`
	Emitter [32]byte `json:"emitter"`
}
