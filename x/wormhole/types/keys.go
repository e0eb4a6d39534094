package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "wormhole"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// TokenBridgeAccount is the module account holding bridged custody.
	TokenBridgeAccount = "wormhole_token_bridge"

	// DefaultHostChain is the attestation network id of the host chain.
	DefaultHostChain uint16 = 3
)

// Store key prefixes
var (
	GuardianSetPrefix         = []byte{0x01} // guardian set index -> guardian set
	CurrentGuardianSetKey     = []byte{0x02} // index of the active guardian set
	CoreSequenceNamespace     = []byte{0x03} // per-emitter message sequences
	ExecutedTransferNamespace = []byte{0x04} // hashes of completed transfers
	ForeignBridgePrefix       = []byte{0x05} // chain -> remote token bridge emitter
	ConfigKey                 = []byte{0x06}
	PostedMessagePrefix       = []byte{0x07} // emitter ++ sequence -> message
	DepositPrefix             = []byte{0x08} // depositor ++ denom -> deposited amount
)

// GetGuardianSetKey returns the store key of a guardian set.
func GetGuardianSetKey(index uint32) []byte {
	key := make([]byte, 1+4)
	key[0] = GuardianSetPrefix[0]
	binary.BigEndian.PutUint32(key[1:], index)
	return key
}

// GetForeignBridgeKey returns the store key of a remote token bridge.
func GetForeignBridgeKey(chain uint16) []byte {
	key := make([]byte, 1+2)
	key[0] = ForeignBridgePrefix[0]
	binary.BigEndian.PutUint16(key[1:], chain)
	return key
}

// GetPostedMessageKey returns the store key of a posted message.
func GetPostedMessageKey(emitter [32]byte, sequence uint64) []byte {
	key := make([]byte, 0, 1+32+8)
	key = append(key, PostedMessagePrefix...)
	key = append(key, emitter[:]...)
	return append(key, sdk.Uint64ToBigEndian(sequence)...)
}

// GetDepositKey returns the store key of a native deposit.
func GetDepositKey(depositor sdk.AccAddress, denom string) []byte {
	key := make([]byte, 0, 2+len(depositor)+len(denom))
	key = append(key, DepositPrefix...)
	key = append(key, byte(len(depositor)))
	key = append(key, depositor...)
	return append(key, denom...)
}
