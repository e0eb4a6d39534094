package types

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"

	"cosmossdk.io/math"

	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// Instruction wire layout:
//
//	0   u8        opcode (bit7 incoming transfer, bit6 outgoing transfer, bits 0-5 action)
//	1   [32]byte  sender address on the sender chain
//	33  ...       opcode specific body, big-endian
const (
	OpCodeIndex        = 0
	SenderAddressIndex = 1
	AddressLength      = 32
	HeaderLength       = SenderAddressIndex + AddressLength
)

const (
	FlagIncomingTransfer byte = 0b1000_0000
	FlagOutgoingTransfer byte = 0b0100_0000
	actionMask           byte = 0b0011_1111
)

// Direction says which asset transfers accompany an instruction.
type Direction uint8

const (
	DirectionIncoming Direction = iota + 1
	DirectionOutgoing
	DirectionBoth
)

// HasIncoming reports whether an inbound transfer funds the instruction.
func (d Direction) HasIncoming() bool {
	return d == DirectionIncoming || d == DirectionBoth
}

// HasOutgoing reports whether the instruction yields an asset owed back.
func (d Direction) HasOutgoing() bool {
	return d == DirectionOutgoing || d == DirectionBoth
}

func (d Direction) flags() byte {
	switch d {
	case DirectionIncoming:
		return FlagIncomingTransfer
	case DirectionOutgoing:
		return FlagOutgoingTransfer
	case DirectionBoth:
		return FlagIncomingTransfer | FlagOutgoingTransfer
	default:
		return 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionIncoming:
		return "incoming"
	case DirectionOutgoing:
		return "outgoing"
	case DirectionBoth:
		return "both"
	default:
		return "none"
	}
}

// Action selects the operation within a direction.
type Action uint8

// OpCode is the first byte of an instruction.
type OpCode byte

// NewOpCode combines a direction and an action.
func NewOpCode(d Direction, a Action) OpCode {
	return OpCode(d.flags() | (byte(a) & actionMask))
}

// Direction decodes the transfer flags. Instructions with neither flag set
// have no direction.
func (op OpCode) Direction() (Direction, bool) {
	switch byte(op) &^ actionMask {
	case FlagIncomingTransfer:
		return DirectionIncoming, true
	case FlagOutgoingTransfer:
		return DirectionOutgoing, true
	case FlagIncomingTransfer | FlagOutgoingTransfer:
		return DirectionBoth, true
	default:
		return 0, false
	}
}

// Action returns the low six bits.
func (op OpCode) Action() Action {
	return Action(byte(op) & actionMask)
}

func (op OpCode) String() string {
	if s, ok := schemas[op]; ok {
		return s.Name
	}
	return fmt.Sprintf("unknown(0x%02x)", byte(op))
}

// Defined opcodes
var (
	OpDepositStable    = NewOpCode(DirectionBoth, 0)
	OpRedeemStable     = NewOpCode(DirectionBoth, 1)
	OpRepayStable      = NewOpCode(DirectionIncoming, 0)
	OpLockCollateral   = NewOpCode(DirectionIncoming, 1)
	OpUnlockCollateral = NewOpCode(DirectionOutgoing, 0)
	OpBorrowStable     = NewOpCode(DirectionOutgoing, 1)
	OpClaimRewards     = NewOpCode(DirectionOutgoing, 2)
)

// Field is one fixed-width big-endian body field.
type Field struct {
	Name   string
	Offset int
	Width  int
}

// AssetKind is the asset kind an incoming transfer must carry.
type AssetKind uint8

const (
	AssetAny AssetKind = iota
	AssetNative
	AssetToken
)

// Schema describes the body of one opcode.
type Schema struct {
	OpCode OpCode
	Name   string
	Fields []Field
	// Provision marks operations served by the sender's proxy.
	Provision bool
	// Incoming is the asset kind the companion transfer must carry.
	Incoming AssetKind
}

// BodyLength is the exact body width.
func (s Schema) BodyLength() int {
	n := 0
	for _, f := range s.Fields {
		if end := f.Offset + f.Width; end > n {
			n = end
		}
	}
	return n
}

var expectedSequenceBody = []Field{{Name: "expected_sequence", Offset: 0, Width: 8}}

var schemas = map[OpCode]Schema{
	OpDepositStable: {
		OpCode: OpDepositStable, Name: "deposit_stable",
		Fields: expectedSequenceBody, Incoming: AssetNative,
	},
	OpRedeemStable: {
		OpCode: OpRedeemStable, Name: "redeem_stable",
		Fields: expectedSequenceBody, Incoming: AssetToken,
	},
	OpRepayStable: {
		OpCode: OpRepayStable, Name: "repay_stable",
		Fields: expectedSequenceBody, Provision: true, Incoming: AssetNative,
	},
	OpLockCollateral: {
		OpCode: OpLockCollateral, Name: "lock_collateral",
		Fields: expectedSequenceBody, Provision: true, Incoming: AssetToken,
	},
	OpUnlockCollateral: {
		OpCode: OpUnlockCollateral, Name: "unlock_collateral",
		Fields: []Field{
			{Name: "token", Offset: 0, Width: 32},
			{Name: "amount", Offset: 32, Width: 16},
		},
		Provision: true,
	},
	OpBorrowStable: {
		OpCode: OpBorrowStable, Name: "borrow_stable",
		Fields:    []Field{{Name: "amount", Offset: 0, Width: 32}},
		Provision: true,
	},
	OpClaimRewards: {
		OpCode: OpClaimRewards, Name: "claim_rewards",
		Provision: true,
	},
}

// SchemaOf returns the schema of a defined opcode.
func SchemaOf(op OpCode) (Schema, bool) {
	s, ok := schemas[op]
	return s, ok
}

// OpCodes returns every defined opcode.
func OpCodes() []OpCode {
	return []OpCode{
		OpDepositStable, OpRedeemStable, OpRepayStable, OpLockCollateral,
		OpUnlockCollateral, OpBorrowStable, OpClaimRewards,
	}
}

// InstructionBody is the opcode specific part of an instruction.
type InstructionBody interface {
	opCodes() []OpCode
	encode(s Schema) []byte
}

// IncomingTransferBody names the sequence of the companion transfer.
type IncomingTransferBody struct {
	ExpectedSequence uint64
}

// UnlockCollateralBody releases Amount of collateral Token.
type UnlockCollateralBody struct {
	Token  [32]byte
	Amount math.Int
}

// BorrowStableBody borrows Amount of the stable denom.
type BorrowStableBody struct {
	Amount math.Int
}

// ClaimRewardsBody claims accrued rewards.
type ClaimRewardsBody struct{}

func (IncomingTransferBody) opCodes() []OpCode {
	return []OpCode{OpDepositStable, OpRedeemStable, OpRepayStable, OpLockCollateral}
}

func (UnlockCollateralBody) opCodes() []OpCode { return []OpCode{OpUnlockCollateral} }
func (BorrowStableBody) opCodes() []OpCode     { return []OpCode{OpBorrowStable} }
func (ClaimRewardsBody) opCodes() []OpCode     { return []OpCode{OpClaimRewards} }

func (b IncomingTransferBody) encode(s Schema) []byte {
	bz := make([]byte, s.BodyLength())
	binary.BigEndian.PutUint64(bz[s.Fields[0].Offset:], b.ExpectedSequence)
	return bz
}

func (b UnlockCollateralBody) encode(s Schema) []byte {
	bz := make([]byte, s.BodyLength())
	copy(bz[s.Fields[0].Offset:], b.Token[:])
	putUint(bz, s.Fields[1], b.Amount)
	return bz
}

func (b BorrowStableBody) encode(s Schema) []byte {
	bz := make([]byte, s.BodyLength())
	putUint(bz, s.Fields[0], b.Amount)
	return bz
}

func (ClaimRewardsBody) encode(Schema) []byte { return nil }

// Instruction is a decoded, attested instruction.
type Instruction struct {
	OpCode        OpCode
	SenderChain   uint16
	SenderAddress [32]byte
	Sequence      uint64
	Hash          []byte
	Body          InstructionBody
}

// Direction of the instruction opcode. Decoded instructions always have one.
func (in Instruction) Direction() Direction {
	d, _ := in.OpCode.Direction()
	return d
}

// Schema of the instruction opcode.
func (in Instruction) Schema() Schema {
	return schemas[in.OpCode]
}

// Origin identifies the instruction towards the router.
func (in Instruction) Origin() sharedkeeper.Origin {
	return sharedkeeper.Origin{Chain: in.SenderChain, Sender: in.SenderAddress, Sequence: in.Sequence}
}

func (in Instruction) String() string {
	return fmt.Sprintf("%s from %d/%s#%d", in.OpCode, in.SenderChain, hex.EncodeToString(in.SenderAddress[:]), in.Sequence)
}

// DecodeInstruction parses an instruction payload. The body must match the
// opcode schema width exactly.
func DecodeInstruction(payload []byte) (Instruction, error) {
	if len(payload) < HeaderLength {
		return Instruction{}, ErrInvalidInstruction.Wrapf("payload of %d bytes is shorter than the %d byte header", len(payload), HeaderLength)
	}
	op := OpCode(payload[OpCodeIndex])
	if _, ok := op.Direction(); !ok {
		return Instruction{}, ErrInvalidInstruction.Wrapf("opcode 0x%02x carries no transfer direction", byte(op))
	}
	s, ok := schemas[op]
	if !ok {
		return Instruction{}, ErrInvalidInstruction.Wrapf("unknown opcode 0x%02x", byte(op))
	}
	body := payload[HeaderLength:]
	if len(body) != s.BodyLength() {
		return Instruction{}, ErrInvalidInstruction.Wrapf("%s body is %d bytes, want %d", s.Name, len(body), s.BodyLength())
	}

	in := Instruction{OpCode: op}
	copy(in.SenderAddress[:], payload[SenderAddressIndex:HeaderLength])

	switch op {
	case OpDepositStable, OpRedeemStable, OpRepayStable, OpLockCollateral:
		in.Body = IncomingTransferBody{ExpectedSequence: binary.BigEndian.Uint64(field(body, s.Fields[0]))}
	case OpUnlockCollateral:
		var b UnlockCollateralBody
		copy(b.Token[:], field(body, s.Fields[0]))
		b.Amount = readUint(body, s.Fields[1])
		in.Body = b
	case OpBorrowStable:
		in.Body = BorrowStableBody{Amount: readUint(body, s.Fields[0])}
	case OpClaimRewards:
		in.Body = ClaimRewardsBody{}
	}
	return in, nil
}

// InstructionFromAttestation decodes the attestation payload and binds it to
// the attested sender chain, sequence and hash.
func InstructionFromAttestation(att sharedkeeper.Attestation) (Instruction, error) {
	in, err := DecodeInstruction(att.Payload)
	if err != nil {
		return Instruction{}, err
	}
	in.SenderChain = att.EmitterChain
	in.Sequence = att.Sequence
	in.Hash = att.Hash
	return in, nil
}

// Encode serializes the instruction payload.
func (in Instruction) Encode() ([]byte, error) {
	s, ok := schemas[in.OpCode]
	if !ok {
		return nil, ErrInvalidInstruction.Wrapf("unknown opcode 0x%02x", byte(in.OpCode))
	}
	if in.Body == nil {
		return nil, ErrInvalidInstruction.Wrapf("%s has no body", s.Name)
	}
	if !containsOpCode(in.Body.opCodes(), in.OpCode) {
		return nil, ErrInvalidInstruction.Wrapf("%T is not a %s body", in.Body, s.Name)
	}
	if err := validateBody(in.Body, s); err != nil {
		return nil, err
	}
	bz := make([]byte, HeaderLength, HeaderLength+s.BodyLength())
	bz[OpCodeIndex] = byte(in.OpCode)
	copy(bz[SenderAddressIndex:], in.SenderAddress[:])
	return append(bz, in.Body.encode(s)...), nil
}

func validateBody(body InstructionBody, s Schema) error {
	var amount math.Int
	var width int
	switch b := body.(type) {
	case UnlockCollateralBody:
		amount, width = b.Amount, s.Fields[1].Width
	case BorrowStableBody:
		amount, width = b.Amount, s.Fields[0].Width
	default:
		return nil
	}
	if amount.IsNil() || amount.IsNegative() || amount.BigInt().BitLen() > 8*width {
		return ErrInvalidInstruction.Wrapf("%s amount does not fit %d bytes", s.Name, width)
	}
	return nil
}

func containsOpCode(ops []OpCode, op OpCode) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func field(body []byte, f Field) []byte {
	return body[f.Offset : f.Offset+f.Width]
}

func readUint(body []byte, f Field) math.Int {
	return math.NewIntFromBigInt(new(big.Int).SetBytes(field(body, f)))
}

func putUint(bz []byte, f Field, v math.Int) {
	v.BigInt().FillBytes(bz[f.Offset : f.Offset+f.Width])
}
