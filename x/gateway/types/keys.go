package types

import (
	"encoding/binary"
)

const (
	// ModuleName defines the module name
	ModuleName = "gateway"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// Nonces of the two outbound messages of a relayed asset.
const (
	TransferNonce     uint32 = 135792468
	TransferInfoNonce uint32 = 24680135
)

// Store key prefixes
var (
	ConfigKey              = []byte{0x01}
	RemoteGatewayPrefix    = []byte{0x02} // chain -> remote gateway address
	SequenceRecordPrefix   = []byte{0x03} // chain ++ instruction sequence -> SequenceRecord
	PendingOutgoingPrefix  = []byte{0x04} // chain ++ instruction sequence -> OutgoingTransferInfo
	CompletedInstructionNS = []byte{0x05} // processed instruction hashes
)

// SequenceKey encodes (chain, sequence) big-endian.
func SequenceKey(chain uint16, sequence uint64) []byte {
	key := make([]byte, 2+8)
	binary.BigEndian.PutUint16(key, chain)
	binary.BigEndian.PutUint64(key[2:], sequence)
	return key
}

// ParseSequenceKey is the inverse of SequenceKey.
func ParseSequenceKey(key []byte) (uint16, uint64, bool) {
	if len(key) != 10 {
		return 0, 0, false
	}
	return binary.BigEndian.Uint16(key), binary.BigEndian.Uint64(key[2:]), true
}

// GetRemoteGatewayKey returns the store key of a chain registration.
func GetRemoteGatewayKey(chain uint16) []byte {
	key := make([]byte, 1+2)
	key[0] = RemoteGatewayPrefix[0]
	binary.BigEndian.PutUint16(key[1:], chain)
	return key
}

// GetSequenceRecordKey returns the store key of a sequence record.
func GetSequenceRecordKey(chain uint16, sequence uint64) []byte {
	return append(append([]byte{}, SequenceRecordPrefix...), SequenceKey(chain, sequence)...)
}

// GetPendingOutgoingKey returns the store key of a pending outgoing transfer.
func GetPendingOutgoingKey(chain uint16, sequence uint64) []byte {
	return append(append([]byte{}, PendingOutgoingPrefix...), SequenceKey(chain, sequence)...)
}
