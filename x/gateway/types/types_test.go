package types_test

import (
	"encoding/binary"
	"math/big"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/paw-chain/crosslend/x/gateway/types"
	routertypes "github.com/paw-chain/crosslend/x/router/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
	wormholetypes "github.com/paw-chain/crosslend/x/wormhole/types"
)

const hostChain uint16 = 3

func sender() [32]byte {
	var s [32]byte
	s[0] = 0xEE
	s[31] = 0x01
	return s
}

func sampleBody(op types.OpCode) types.InstructionBody {
	switch op {
	case types.OpUnlockCollateral:
		var token [32]byte
		token[31] = 0x33
		return types.UnlockCollateralBody{Token: token, Amount: math.NewInt(500)}
	case types.OpBorrowStable:
		return types.BorrowStableBody{Amount: math.NewInt(250)}
	case types.OpClaimRewards:
		return types.ClaimRewardsBody{}
	default:
		return types.IncomingTransferBody{ExpectedSequence: 42}
	}
}

func TestOpCodeBits(t *testing.T) {
	expected := map[types.OpCode]byte{
		types.OpDepositStable:    0xC0,
		types.OpRedeemStable:     0xC1,
		types.OpRepayStable:      0x80,
		types.OpLockCollateral:   0x81,
		types.OpUnlockCollateral: 0x40,
		types.OpBorrowStable:     0x41,
		types.OpClaimRewards:     0x42,
	}
	require.Len(t, types.OpCodes(), len(expected))
	for op, b := range expected {
		require.Equal(t, b, byte(op), op.String())
		d, ok := op.Direction()
		require.True(t, ok)
		require.Equal(t, d.HasIncoming(), b&types.FlagIncomingTransfer != 0)
		require.Equal(t, d.HasOutgoing(), b&types.FlagOutgoingTransfer != 0)
	}

	_, ok := types.OpCode(0x05).Direction()
	require.False(t, ok)
}

func TestInstructionCodecPerOpCode(t *testing.T) {
	bodyLengths := map[types.OpCode]int{
		types.OpDepositStable:    8,
		types.OpRedeemStable:     8,
		types.OpRepayStable:      8,
		types.OpLockCollateral:   8,
		types.OpUnlockCollateral: 48,
		types.OpBorrowStable:     32,
		types.OpClaimRewards:     0,
	}
	for _, op := range types.OpCodes() {
		t.Run(op.String(), func(t *testing.T) {
			in := types.Instruction{OpCode: op, SenderAddress: sender(), Body: sampleBody(op)}
			bz, err := in.Encode()
			require.NoError(t, err)
			require.Len(t, bz, types.HeaderLength+bodyLengths[op])
			require.Equal(t, byte(op), bz[0])
			require.Equal(t, in.SenderAddress[:], bz[1:33])

			got, err := types.DecodeInstruction(bz)
			require.NoError(t, err)
			require.Equal(t, op, got.OpCode)
			require.Equal(t, in.SenderAddress, got.SenderAddress)
			require.Equal(t, in.Body, got.Body)

			if len(bz) > types.HeaderLength {
				_, err = types.DecodeInstruction(bz[:len(bz)-1])
				require.ErrorIs(t, err, types.ErrInvalidInstruction, "truncated body")
			}
			_, err = types.DecodeInstruction(append(append([]byte{}, bz...), 0x00))
			require.ErrorIs(t, err, types.ErrInvalidInstruction, "oversized body")
		})
	}
}

func TestDecodeInstructionRejects(t *testing.T) {
	_, err := types.DecodeInstruction(make([]byte, types.HeaderLength-1))
	require.ErrorIs(t, err, types.ErrInvalidInstruction)

	noDirection := make([]byte, types.HeaderLength+8)
	noDirection[0] = 0x00
	_, err = types.DecodeInstruction(noDirection)
	require.ErrorIs(t, err, types.ErrInvalidInstruction)

	unknown := make([]byte, types.HeaderLength+8)
	unknown[0] = 0xC7
	_, err = types.DecodeInstruction(unknown)
	require.ErrorIs(t, err, types.ErrInvalidInstruction)
}

func TestFieldOffsets(t *testing.T) {
	var token [32]byte
	token[0] = 0xAA
	in := types.Instruction{
		OpCode:        types.OpUnlockCollateral,
		SenderAddress: sender(),
		Body:          types.UnlockCollateralBody{Token: token, Amount: math.NewInt(0x0102)},
	}
	bz, err := in.Encode()
	require.NoError(t, err)
	require.Equal(t, byte(0xAA), bz[33])
	require.Equal(t, []byte{0x01, 0x02}, bz[len(bz)-2:])

	dep := types.Instruction{OpCode: types.OpDepositStable, SenderAddress: sender(), Body: types.IncomingTransferBody{ExpectedSequence: 9}}
	bz, err = dep.Encode()
	require.NoError(t, err)
	require.Equal(t, uint64(9), binary.BigEndian.Uint64(bz[33:41]))
}

func TestEncodeRejectsMismatchedBody(t *testing.T) {
	_, err := types.Instruction{OpCode: types.OpBorrowStable, Body: types.ClaimRewardsBody{}}.Encode()
	require.ErrorIs(t, err, types.ErrInvalidInstruction)

	_, err = types.Instruction{OpCode: types.OpDepositStable}.Encode()
	require.ErrorIs(t, err, types.ErrInvalidInstruction)

	huge := math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 130))
	_, err = types.Instruction{
		OpCode: types.OpUnlockCollateral,
		Body:   types.UnlockCollateralBody{Amount: huge},
	}.Encode()
	require.ErrorIs(t, err, types.ErrInvalidInstruction, "amount wider than 16 bytes")
}

func TestInstructionCodecProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ops := types.OpCodes()
		op := ops[rapid.IntRange(0, len(ops)-1).Draw(t, "op")]
		var from [32]byte
		copy(from[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "sender"))

		var body types.InstructionBody
		switch op {
		case types.OpUnlockCollateral:
			var token [32]byte
			copy(token[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "token"))
			body = types.UnlockCollateralBody{Token: token, Amount: math.NewIntFromUint64(rapid.Uint64().Draw(t, "amount"))}
		case types.OpBorrowStable:
			body = types.BorrowStableBody{Amount: math.NewIntFromUint64(rapid.Uint64().Draw(t, "amount"))}
		case types.OpClaimRewards:
			body = types.ClaimRewardsBody{}
		default:
			body = types.IncomingTransferBody{ExpectedSequence: rapid.Uint64().Draw(t, "expected")}
		}

		in := types.Instruction{OpCode: op, SenderAddress: from, Body: body}
		bz, err := in.Encode()
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := types.DecodeInstruction(bz)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.OpCode != op || got.SenderAddress != from {
			t.Fatalf("header changed: %v", got)
		}
		again, err := got.Encode()
		if err != nil || string(again) != string(bz) {
			t.Fatalf("re-encode differs")
		}
	})
}

func TestDecodeInstructionNeverPanics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bz := rapid.SliceOfN(rapid.Byte(), 0, 128).Draw(t, "payload")
		_, _ = types.DecodeInstruction(bz)
	})
}

func TestOutgoingTransferInfoLayout(t *testing.T) {
	info := types.OutgoingTransferInfo{
		ChainID:             2,
		Recipient:           sender(),
		OutgoingSequence:    0x0A,
		InstructionSequence: 0x0B,
	}
	bz := info.Encode()
	require.Len(t, bz, types.OutgoingTransferInfoLength)
	require.Equal(t, []byte{0x00, 0x02}, bz[0:2])
	require.Equal(t, info.Recipient[:], bz[2:34])
	require.Equal(t, uint64(0x0A), binary.BigEndian.Uint64(bz[34:42]))
	require.Equal(t, uint64(0x0B), binary.BigEndian.Uint64(bz[42:50]))

	got, err := types.DecodeOutgoingTransferInfo(bz)
	require.NoError(t, err)
	require.Equal(t, info, got)

	_, err = types.DecodeOutgoingTransferInfo(bz[:49])
	require.ErrorIs(t, err, types.ErrInvalidTransfer)
}

func transferAttestation(t *testing.T, seq uint64, info asset.Info, amount, fee int64, recipient [32]byte) sharedkeeper.Attestation {
	token, err := wormholetypes.TokenAddress(info)
	require.NoError(t, err)
	bz, err := wormholetypes.TransferPayload{
		Amount:         math.NewInt(amount),
		TokenAddress:   token,
		TokenChain:     hostChain,
		Recipient:      recipient,
		RecipientChain: hostChain,
		Fee:            math.NewInt(fee),
	}.Encode()
	require.NoError(t, err)
	return sharedkeeper.Attestation{EmitterChain: 2, Sequence: seq, Payload: bz}
}

func TestIncomingTransfer(t *testing.T) {
	var gateway [32]byte
	gateway[31] = 0x77
	in := types.Instruction{
		OpCode:      types.OpDepositStable,
		SenderChain: 2,
		Sequence:    7,
		Body:        types.IncomingTransferBody{ExpectedSequence: 3},
	}

	got, err := types.IncomingTransfer(in, transferAttestation(t, 3, asset.NativeInfo("uusd"), 1_000, 10, gateway), hostChain, gateway)
	require.NoError(t, err)
	require.Equal(t, asset.NewNative("uusd", math.NewInt(990)), got)

	_, err = types.IncomingTransfer(in, transferAttestation(t, 4, asset.NativeInfo("uusd"), 1_000, 0, gateway), hostChain, gateway)
	require.ErrorIs(t, err, types.ErrCorrelation)

	att := transferAttestation(t, 3, asset.NativeInfo("uusd"), 1_000, 0, gateway)
	att.EmitterChain = 5
	_, err = types.IncomingTransfer(in, att, hostChain, gateway)
	require.ErrorIs(t, err, types.ErrCorrelation)

	var other [32]byte
	other[31] = 0x78
	_, err = types.IncomingTransfer(in, transferAttestation(t, 3, asset.NativeInfo("uusd"), 1_000, 0, other), hostChain, gateway)
	require.ErrorIs(t, err, types.ErrCorrelation)

	token := asset.TokenInfo(sdk.AccAddress("collateral_token____").String())
	_, err = types.IncomingTransfer(in, transferAttestation(t, 3, token, 1_000, 0, gateway), hostChain, gateway)
	require.ErrorIs(t, err, types.ErrInvalidTransfer)

	borrow := types.Instruction{OpCode: types.OpBorrowStable, Body: types.BorrowStableBody{Amount: math.OneInt()}}
	_, err = types.IncomingTransfer(borrow, att, hostChain, gateway)
	require.ErrorIs(t, err, types.ErrInvalidInstruction)
}

func TestErrorClass(t *testing.T) {
	cases := map[error]string{
		sdkerrors.ErrUnauthorized.Wrap("x"):           types.ClassAuthorization,
		routertypes.ErrNotWhitelisted:                 types.ClassAuthorization,
		types.ErrReplayDetected.Wrap("x"):             types.ClassReplay,
		wormholetypes.ErrVAAAlreadyExecuted:           types.ClassReplay,
		types.ErrCorrelation:                          types.ClassCorrelation,
		types.ErrUnknownEmitter:                       types.ClassNotFound,
		types.ErrPendingTransferNotFound:              types.ClassNotFound,
		types.ErrInvalidInstruction:                   types.ClassValidation,
		types.ErrAttestationInvalid:                   types.ClassValidation,
		types.ErrUpstream.Wrap("x"):                   types.ClassUpstream,
		routertypes.ErrUpstream:                       types.ClassUpstream,
		sdkerrors.ErrInsufficientFunds.Wrap("ledger"): types.ClassInternal,
	}
	for err, class := range cases {
		require.Equal(t, class, types.ErrorClass(err), err.Error())
	}
	require.Empty(t, types.ErrorClass(nil))
}

func TestGenesisValidate(t *testing.T) {
	require.NoError(t, types.DefaultGenesis().Validate())

	seq := uint64(1)
	gs := types.DefaultGenesis()
	gs.Config = &types.Config{Owner: sdk.AccAddress("gateway_owner_______").String(), HostChain: hostChain}
	gs.RemoteGateways = []types.ChainRegistration{{Chain: 2}}
	gs.SequenceRecords = []types.SequenceRecordEntry{
		{Chain: 2, Sequence: 7, Record: types.SequenceRecord{OutgoingExpected: true, OutgoingSequence: &seq}},
		{Chain: 2, Sequence: 8, Record: types.SequenceRecord{OutgoingExpected: true}},
	}
	gs.PendingTransfers = []types.OutgoingTransferInfo{{ChainID: 2, InstructionSequence: 8}}
	gs.CompletedInstructions = [][]byte{{0x01}}
	require.NoError(t, gs.Validate())

	bad := *gs
	bad.RemoteGateways = []types.ChainRegistration{{Chain: 2}, {Chain: 2}}
	require.ErrorIs(t, bad.Validate(), types.ErrInvalidGenesis)

	bad = *gs
	bad.PendingTransfers = []types.OutgoingTransferInfo{{ChainID: 2, InstructionSequence: 9}}
	require.ErrorIs(t, bad.Validate(), types.ErrInvalidGenesis)

	bad = *gs
	bad.SequenceRecords = []types.SequenceRecordEntry{{Chain: 2, Sequence: 7, Record: types.SequenceRecord{OutgoingSequence: &seq}}}
	bad.PendingTransfers = nil
	require.ErrorIs(t, bad.Validate(), types.ErrInvalidGenesis)

	bad = *gs
	bad.Config = &types.Config{Owner: "nope", HostChain: hostChain}
	require.ErrorIs(t, bad.Validate(), types.ErrInvalidConfig)
}

func TestMsgValidateBasic(t *testing.T) {
	owner := sdk.AccAddress("gateway_owner_______").String()
	require.NoError(t, types.NewMsgSubmitInstruction(owner, []byte{1}, nil).ValidateBasic())
	require.Error(t, types.NewMsgSubmitInstruction(owner, nil, nil).ValidateBasic())
	require.Error(t, types.NewMsgSubmitInstruction("bad", []byte{1}, nil).ValidateBasic())

	var addr [32]byte
	require.Error(t, types.MsgRegisterRemoteGateway{Sender: owner, Chain: 2, Address: addr}.ValidateBasic())
	addr[0] = 1
	require.NoError(t, types.MsgRegisterRemoteGateway{Sender: owner, Chain: 2, Address: addr}.ValidateBasic())
	require.Error(t, types.MsgRegisterRemoteGateway{Sender: owner, Chain: 0, Address: addr}.ValidateBasic())
}
