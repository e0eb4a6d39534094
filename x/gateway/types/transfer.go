package types

import (
	"encoding/binary"

	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
	wormholetypes "github.com/paw-chain/crosslend/x/wormhole/types"
)

// OutgoingTransferInfoLength is the size of an encoded OutgoingTransferInfo.
//
//	0   u16       chain id
//	2   [32]byte  recipient address
//	34  u64       outgoing token transfer sequence
//	42  u64       instruction sequence
const OutgoingTransferInfoLength = 2 + 32 + 8 + 8

// OutgoingTransferInfo correlates an outbound token transfer with the
// instruction that caused it. It is posted next to the transfer so the remote
// gateway can match them.
type OutgoingTransferInfo struct {
	ChainID             uint16   `json:"chain_id"`
	Recipient           [32]byte `json:"recipient"`
	OutgoingSequence    uint64   `json:"outgoing_sequence"`
	InstructionSequence uint64   `json:"instruction_sequence"`
}

// Encode serializes the info big-endian.
func (o OutgoingTransferInfo) Encode() []byte {
	bz := make([]byte, OutgoingTransferInfoLength)
	binary.BigEndian.PutUint16(bz[0:2], o.ChainID)
	copy(bz[2:34], o.Recipient[:])
	binary.BigEndian.PutUint64(bz[34:42], o.OutgoingSequence)
	binary.BigEndian.PutUint64(bz[42:50], o.InstructionSequence)
	return bz
}

// DecodeOutgoingTransferInfo is the inverse of Encode.
func DecodeOutgoingTransferInfo(bz []byte) (OutgoingTransferInfo, error) {
	if len(bz) != OutgoingTransferInfoLength {
		return OutgoingTransferInfo{}, ErrInvalidTransfer.Wrapf("transfer info is %d bytes, want %d", len(bz), OutgoingTransferInfoLength)
	}
	var o OutgoingTransferInfo
	o.ChainID = binary.BigEndian.Uint16(bz[0:2])
	copy(o.Recipient[:], bz[2:34])
	o.OutgoingSequence = binary.BigEndian.Uint64(bz[34:42])
	o.InstructionSequence = binary.BigEndian.Uint64(bz[42:50])
	return o, nil
}

// SequenceRecord acknowledges a processed instruction and, once relayed,
// the sequence of the message correlating its outbound transfer.
type SequenceRecord struct {
	OutgoingExpected bool    `json:"outgoing_expected"`
	OutgoingSequence *uint64 `json:"outgoing_sequence,omitempty"`
}

// SequenceRecordEntry is a SequenceRecord with its key, used in genesis.
type SequenceRecordEntry struct {
	Chain    uint16         `json:"chain"`
	Sequence uint64         `json:"sequence"`
	Record   SequenceRecord `json:"record"`
}

// ChainRegistration trusts Address as the gateway of Chain.
type ChainRegistration struct {
	Chain   uint16   `json:"chain"`
	Address [32]byte `json:"address"`
}

// IncomingTransfer checks that the transfer attestation att funds instruction
// in and returns the asset that reached recipient. The companion transfer
// must come from the instruction's chain at the declared sequence and pay
// recipient on hostChain in a host-native asset of the kind the opcode needs.
func IncomingTransfer(in Instruction, att sharedkeeper.Attestation, hostChain uint16, recipient [32]byte) (asset.Asset, error) {
	body, ok := in.Body.(IncomingTransferBody)
	if !ok {
		return asset.Asset{}, ErrInvalidInstruction.Wrapf("%s carries no incoming transfer", in.OpCode)
	}
	if att.EmitterChain != in.SenderChain {
		return asset.Asset{}, ErrCorrelation.Wrapf("transfer from chain %d, instruction from chain %d", att.EmitterChain, in.SenderChain)
	}
	if att.Sequence != body.ExpectedSequence {
		return asset.Asset{}, ErrCorrelation.Wrapf("transfer sequence %d, instruction expects %d", att.Sequence, body.ExpectedSequence)
	}
	p, err := wormholetypes.DecodeTransferPayload(att.Payload)
	if err != nil {
		return asset.Asset{}, ErrInvalidTransfer.Wrap(err.Error())
	}
	if p.RecipientChain != hostChain || p.Recipient != recipient {
		return asset.Asset{}, ErrCorrelation.Wrapf("transfer pays %x on chain %d", p.Recipient, p.RecipientChain)
	}
	if p.TokenChain != hostChain {
		return asset.Asset{}, ErrInvalidTransfer.Wrapf("token of chain %d is not a host asset", p.TokenChain)
	}
	info, err := wormholetypes.AssetInfoFromTokenAddress(p.TokenAddress)
	if err != nil {
		return asset.Asset{}, ErrInvalidTransfer.Wrap(err.Error())
	}
	switch in.Schema().Incoming {
	case AssetNative:
		if !info.IsNative() {
			return asset.Asset{}, ErrInvalidTransfer.Wrapf("%s expects a native asset, got %s", in.OpCode, info)
		}
	case AssetToken:
		if info.IsNative() {
			return asset.Asset{}, ErrInvalidTransfer.Wrapf("%s expects a token, got %s", in.OpCode, info)
		}
	}
	return asset.Asset{Info: info, Amount: p.Net()}, nil
}
