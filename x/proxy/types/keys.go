package types

import (
	"encoding/binary"

	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "proxy"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	InstanceKeyPrefix = []byte{0x01} // prefix for proxy instances by address
	RemoteIndexPrefix = []byte{0x02} // prefix for chain ++ remote address -> proxy address
	SnapshotKeyPrefix = []byte{0x03} // prefix for balance-forwarding snapshots
)

// RemoteKey encodes (chain, remote address) big-endian so that iteration is
// ordered by chain first.
func RemoteKey(chain uint16, remote [32]byte) []byte {
	key := make([]byte, 2+32)
	binary.BigEndian.PutUint16(key, chain)
	copy(key[2:], remote[:])
	return key
}

// GetInstanceKey returns the store key for a proxy instance.
func GetInstanceKey(proxy []byte) []byte {
	return append(append([]byte{}, InstanceKeyPrefix...), proxy...)
}

// GetRemoteIndexKey returns the store key of the remote user index.
func GetRemoteIndexKey(chain uint16, remote [32]byte) []byte {
	return append(append([]byte{}, RemoteIndexPrefix...), RemoteKey(chain, remote)...)
}

// DeriveAddress returns the deterministic account of the proxy serving
// (chain, remote).
func DeriveAddress(chain uint16, remote [32]byte) []byte {
	return address.Module(ModuleName, RemoteKey(chain, remote))
}
