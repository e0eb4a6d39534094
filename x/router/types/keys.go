package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "router"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// Store key prefixes
var (
	ConfigKey              = []byte{0x01} // key for the router config
	WhitelistPrefix        = []byte{0x02} // prefix for trusted relay addresses
	ProxyRegistryPrefix    = []byte{0x03} // prefix for chain ++ remote address -> proxy
	PendingProvisionPrefix = []byte{0x04} // prefix for correlation id -> pending provisioning
	InFlightPrefix         = []byte{0x05} // prefix for chain ++ remote address -> correlation id
	NextCorrelationIDKey   = []byte{0x06} // key for the correlation id counter
	SnapshotKeyPrefix      = []byte{0x07} // prefix for balance-forwarding snapshots
)

// RemoteKey encodes (chain, remote address) big-endian.
func RemoteKey(chain uint16, remote [32]byte) []byte {
	key := make([]byte, 2+32)
	binary.BigEndian.PutUint16(key, chain)
	copy(key[2:], remote[:])
	return key
}

// ParseRemoteKey is the inverse of RemoteKey.
func ParseRemoteKey(key []byte) (uint16, [32]byte, bool) {
	var remote [32]byte
	if len(key) != 34 {
		return 0, remote, false
	}
	copy(remote[:], key[2:])
	return binary.BigEndian.Uint16(key), remote, true
}

// GetWhitelistKey returns the store key of a trusted relay.
func GetWhitelistKey(addr sdk.AccAddress) []byte {
	return append(append([]byte{}, WhitelistPrefix...), addr...)
}

// GetProxyRegistryKey returns the store key of a provisioned proxy.
func GetProxyRegistryKey(chain uint16, remote [32]byte) []byte {
	return append(append([]byte{}, ProxyRegistryPrefix...), RemoteKey(chain, remote)...)
}

// GetPendingProvisionKey returns the store key of a pending provisioning.
func GetPendingProvisionKey(correlationID uint64) []byte {
	return append(append([]byte{}, PendingProvisionPrefix...), sdk.Uint64ToBigEndian(correlationID)...)
}

// GetInFlightKey returns the in-flight index key of (chain, remote).
func GetInFlightKey(chain uint16, remote [32]byte) []byte {
	return append(append([]byte{}, InFlightPrefix...), RemoteKey(chain, remote)...)
}
