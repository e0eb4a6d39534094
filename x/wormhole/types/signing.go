package types

import (
	"crypto/ecdsa"
	"time"

	"github.com/wormhole-foundation/wormhole/sdk/vaa"
)

const (
	// VAAVersion is the only VAA version accepted.
	VAAVersion uint8 = 1

	// ConsistencyFinalized is the consistency level of messages posted here.
	ConsistencyFinalized uint8 = 1
)

// Observation is the unsigned content of a VAA.
type Observation struct {
	GuardianSetIndex uint32
	Timestamp        time.Time
	Nonce            uint32
	EmitterChain     uint16
	EmitterAddress   [32]byte
	Sequence         uint64
	Payload          []byte
}

// Signer is a guardian key and its index in the guardian set.
type Signer struct {
	Index uint8
	Key   *ecdsa.PrivateKey
}

// SignObservation signs obs and returns the serialized VAA. Signers must be
// ordered by index.
func SignObservation(obs Observation, signers ...Signer) ([]byte, error) {
	v := &vaa.VAA{
		Version:          VAAVersion,
		GuardianSetIndex: obs.GuardianSetIndex,
		Timestamp:        obs.Timestamp,
		Nonce:            obs.Nonce,
		Sequence:         obs.Sequence,
		ConsistencyLevel: ConsistencyFinalized,
		EmitterChain:     vaa.ChainID(obs.EmitterChain),
		EmitterAddress:   vaa.Address(obs.EmitterAddress),
		Payload:          obs.Payload,
	}
	for _, s := range signers {
		v.AddSignature(s.Key, s.Index)
	}
	return v.Marshal()
}
