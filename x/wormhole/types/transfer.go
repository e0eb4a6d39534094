package types

import (
	"encoding/binary"
	"math/big"

	"cosmossdk.io/math"
)

// ActionTransfer is the token bridge action of a plain transfer.
const ActionTransfer uint8 = 1

// TransferPayloadLength is the size of an encoded transfer including the action byte.
//
//	0   u8       action
//	1   u256     amount
//	33  [32]byte token address
//	65  u16      token chain
//	67  [32]byte recipient
//	99  u16      recipient chain
//	101 u256     fee
const TransferPayloadLength = 1 + 132

// TransferPayload is the body of a token bridge transfer message.
type TransferPayload struct {
	Amount         math.Int
	TokenAddress   [32]byte
	TokenChain     uint16
	Recipient      [32]byte
	RecipientChain uint16
	Fee            math.Int
}

// Validate checks amounts fit the wire form and fee does not exceed amount.
func (p TransferPayload) Validate() error {
	if p.Amount.IsNil() || p.Fee.IsNil() {
		return ErrInvalidTransfer.Wrap("amount and fee are required")
	}
	if p.Amount.IsNegative() || p.Fee.IsNegative() {
		return ErrInvalidTransfer.Wrap("amount and fee must not be negative")
	}
	if p.Amount.BigInt().BitLen() > 256 || p.Fee.BigInt().BitLen() > 256 {
		return ErrInvalidTransfer.Wrap("amount exceeds 256 bits")
	}
	if p.Fee.GT(p.Amount) {
		return ErrInvalidTransfer.Wrapf("fee %s exceeds amount %s", p.Fee, p.Amount)
	}
	return nil
}

// Net is the amount released to the recipient.
func (p TransferPayload) Net() math.Int {
	return p.Amount.Sub(p.Fee)
}

// Encode serializes the payload.
func (p TransferPayload) Encode() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	bz := make([]byte, TransferPayloadLength)
	bz[0] = ActionTransfer
	p.Amount.BigInt().FillBytes(bz[1:33])
	copy(bz[33:65], p.TokenAddress[:])
	binary.BigEndian.PutUint16(bz[65:67], p.TokenChain)
	copy(bz[67:99], p.Recipient[:])
	binary.BigEndian.PutUint16(bz[99:101], p.RecipientChain)
	p.Fee.BigInt().FillBytes(bz[101:133])
	return bz, nil
}

// DecodeTransferPayload parses a transfer message payload.
func DecodeTransferPayload(bz []byte) (TransferPayload, error) {
	if len(bz) == 0 {
		return TransferPayload{}, ErrInvalidTransfer.Wrap("empty payload")
	}
	if bz[0] != ActionTransfer {
		return TransferPayload{}, ErrInvalidTransfer.Wrapf("unexpected action %d", bz[0])
	}
	if len(bz) != TransferPayloadLength {
		return TransferPayload{}, ErrInvalidTransfer.Wrapf("payload length %d, want %d", len(bz), TransferPayloadLength)
	}
	var p TransferPayload
	p.Amount = math.NewIntFromBigInt(uint256(bz[1:33]))
	copy(p.TokenAddress[:], bz[33:65])
	p.TokenChain = binary.BigEndian.Uint16(bz[65:67])
	copy(p.Recipient[:], bz[67:99])
	p.RecipientChain = binary.BigEndian.Uint16(bz[99:101])
	p.Fee = math.NewIntFromBigInt(uint256(bz[101:133]))
	if err := p.Validate(); err != nil {
		return TransferPayload{}, err
	}
	return p, nil
}

func uint256(bz []byte) *big.Int {
	return new(big.Int).SetBytes(bz)
}
