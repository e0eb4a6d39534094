package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/paw-chain/crosslend/testutil/keeper"
	"github.com/paw-chain/crosslend/x/shared/asset"
	"github.com/paw-chain/crosslend/x/wormhole/keeper"
	"github.com/paw-chain/crosslend/x/wormhole/types"
)

type KeeperTestSuite struct {
	suite.Suite

	f   *keepertest.WormholeFixture
	ctx sdk.Context
	k   *keeper.Keeper

	user    sdk.AccAddress
	relayer sdk.AccAddress
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (s *KeeperTestSuite) SetupTest() {
	s.f = keepertest.WormholeKeeper(s.T())
	s.ctx = s.f.Env.Ctx
	s.k = s.f.Keeper
	s.user = sdk.AccAddress("wormhole_user_______")
	s.relayer = sdk.AccAddress("wormhole_relayer____")
}

func (s *KeeperTestSuite) observation(seq uint64, payload []byte) types.Observation {
	return types.Observation{
		EmitterChain:   keepertest.RemoteChain,
		EmitterAddress: s.f.RemoteBridge,
		Sequence:       seq,
		Nonce:          7,
		Payload:        payload,
	}
}

func (s *KeeperTestSuite) nativeTransfer(amount, fee int64, recipient sdk.AccAddress) types.TransferPayload {
	token, err := types.TokenAddress(asset.NativeInfo("uusd"))
	s.Require().NoError(err)
	return types.TransferPayload{
		Amount:         math.NewInt(amount),
		TokenAddress:   token,
		TokenChain:     types.DefaultHostChain,
		Recipient:      types.Bytes32(recipient),
		RecipientChain: types.DefaultHostChain,
		Fee:            math.NewInt(fee),
	}
}

func (s *KeeperTestSuite) countEvents(eventType string) int {
	n := 0
	for _, ev := range s.ctx.EventManager().Events() {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

func (s *KeeperTestSuite) TestVerifyAttestation() {
	raw := s.f.Guardians.Sign(s.T(), s.observation(9, []byte("hello")))
	att, err := s.k.VerifyAttestation(s.ctx, raw)
	s.Require().NoError(err)
	s.Require().Equal(keepertest.RemoteChain, att.EmitterChain)
	s.Require().Equal(s.f.RemoteBridge, att.EmitterAddress)
	s.Require().Equal(uint64(9), att.Sequence)
	s.Require().Equal([]byte("hello"), att.Payload)

	// hash covers the body only, so it does not depend on which quorum signed
	body := raw[6+66*4:]
	s.Require().Equal(crypto.Keccak256(body), att.Hash)
	partial := s.f.Guardians.Sign(s.T(), s.observation(9, []byte("hello")), 0, 1, 3)
	att2, err := s.k.VerifyAttestation(s.ctx, partial)
	s.Require().NoError(err)
	s.Require().Equal(att.Hash, att2.Hash)

	other, err := s.k.VerifyAttestation(s.ctx, s.f.Guardians.Sign(s.T(), s.observation(10, []byte("hello"))))
	s.Require().NoError(err)
	s.Require().NotEqual(att.Hash, other.Hash)
}

func (s *KeeperTestSuite) TestVerifyRejections() {
	obs := s.observation(1, []byte("x"))

	_, err := s.k.VerifyAttestation(s.ctx, []byte{1, 2, 3})
	s.Require().ErrorIs(err, types.ErrInvalidVAA)

	_, err = s.k.VerifyAttestation(s.ctx, s.f.Guardians.Sign(s.T(), obs, 0, 1))
	s.Require().ErrorIs(err, types.ErrNoQuorum)

	_, err = s.k.VerifyAttestation(s.ctx, s.f.Guardians.Sign(s.T(), obs, 2, 1, 0))
	s.Require().ErrorIs(err, types.ErrInvalidSignature)

	unknown := obs
	unknown.GuardianSetIndex = 5
	_, err = s.k.VerifyAttestation(s.ctx, s.f.Guardians.Sign(s.T(), unknown))
	s.Require().ErrorIs(err, types.ErrGuardianSetNotFound)

	impostor, err := crypto.GenerateKey()
	s.Require().NoError(err)
	signers := s.f.Guardians.Signers(0, 1, 2)
	signers[1].Key = impostor
	raw, err := types.SignObservation(types.Observation{
		EmitterChain:   obs.EmitterChain,
		EmitterAddress: obs.EmitterAddress,
		Sequence:       obs.Sequence,
		Timestamp:      time.Unix(1_700_000_000, 0),
		Payload:        obs.Payload,
	}, signers...)
	s.Require().NoError(err)
	_, err = s.k.VerifyAttestation(s.ctx, raw)
	s.Require().ErrorIs(err, types.ErrInvalidSignature)
}

func (s *KeeperTestSuite) TestGuardianSetRotation() {
	old := s.f.Guardians.Sign(s.T(), s.observation(1, []byte("x")))

	_, err := s.k.UpdateGuardianSet(s.ctx, s.user, s.f.Guardians.Set(0).Keys)
	s.Require().ErrorIs(err, sdkerrors.ErrUnauthorized)

	next := keepertest.NewGuardians(s.T(), 5)
	index, err := s.k.UpdateGuardianSet(s.ctx, s.f.Owner, next.Set(0).Keys)
	s.Require().NoError(err)
	s.Require().Equal(uint32(1), index)
	s.Require().Equal(uint32(1), s.k.GetCurrentGuardianSetIndex(s.ctx))
	s.Require().Equal(1, s.countEvents(types.EventTypeGuardianSetUpdate))

	// the replaced set verifies until its grace period ends
	_, err = s.k.VerifyAttestation(s.ctx, old)
	s.Require().NoError(err)

	later := s.ctx.WithBlockTime(s.ctx.BlockTime().Add(time.Duration(types.DefaultGuardianSetExpiry+1) * time.Second))
	_, err = s.k.VerifyAttestation(later, old)
	s.Require().ErrorIs(err, types.ErrGuardianSetExpired)

	obs := s.observation(2, []byte("y"))
	obs.GuardianSetIndex = 1
	_, err = s.k.VerifyAttestation(later, next.Sign(s.T(), obs))
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestPostMessageSequences() {
	a, b := sdk.AccAddress("emitter_a___________"), sdk.AccAddress("emitter_b___________")

	s.Require().Equal(uint64(0), s.k.NextSequence(s.ctx, types.Bytes32(a)))
	seq, err := s.k.PostMessage(s.ctx, a, []byte("one"), 1)
	s.Require().NoError(err)
	s.Require().Equal(uint64(0), seq)
	seq, err = s.k.PostMessage(s.ctx, a, []byte("two"), 2)
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), seq)
	seq, err = s.k.PostMessage(s.ctx, b, []byte("three"), 3)
	s.Require().NoError(err)
	s.Require().Equal(uint64(0), seq, "emitters are sequenced independently")

	s.Require().Equal(uint64(2), s.k.NextSequence(s.ctx, types.Bytes32(a)))
	msg, found := s.k.GetMessage(s.ctx, types.Bytes32(a), 1)
	s.Require().True(found)
	s.Require().Equal([]byte("two"), msg.Payload)
	s.Require().Equal(uint32(2), msg.Nonce)
	s.Require().Equal(3, s.countEvents(types.EventTypeMessagePosted))

	_, err = s.k.PostMessage(s.ctx, nil, []byte("x"), 0)
	s.Require().Error(err)
}

func (s *KeeperTestSuite) TestInitiateNativeTransfer() {
	s.f.Env.FundNative(s.T(), s.user, sdk.NewCoins(sdk.NewInt64Coin("uusd", 1_000)))
	var recipient [32]byte
	recipient[31] = 0xAA

	_, err := s.k.InitiateTransfer(s.ctx, s.user, asset.NewNative("uusd", math.NewInt(600)), keepertest.RemoteChain, recipient, math.ZeroInt(), 1)
	s.Require().ErrorIs(err, types.ErrInsufficientDeposit)

	s.Require().NoError(s.k.DepositTokens(s.ctx, s.user, sdk.NewInt64Coin("uusd", 600)))
	s.Require().Equal(math.NewInt(600), s.k.GetDeposit(s.ctx, s.user, "uusd"))

	seq, err := s.k.InitiateTransfer(s.ctx, s.user, asset.NewNative("uusd", math.NewInt(600)), keepertest.RemoteChain, recipient, math.NewInt(5), 135792468)
	s.Require().NoError(err)
	s.Require().Equal(uint64(0), seq)
	s.Require().True(s.k.GetDeposit(s.ctx, s.user, "uusd").IsZero())
	s.Require().Equal(math.NewInt(600), s.f.Env.Balance(s.T(), s.k.Address(), asset.NativeInfo("uusd")))

	msg, found := s.k.GetMessage(s.ctx, types.Bytes32(s.k.Address()), seq)
	s.Require().True(found)
	s.Require().Equal(uint32(135792468), msg.Nonce)
	p, err := types.DecodeTransferPayload(msg.Payload)
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(600), p.Amount)
	s.Require().Equal(math.NewInt(5), p.Fee)
	s.Require().Equal(recipient, p.Recipient)
	s.Require().Equal(keepertest.RemoteChain, p.RecipientChain)
	s.Require().Equal(types.DefaultHostChain, p.TokenChain)
	info, err := types.AssetInfoFromTokenAddress(p.TokenAddress)
	s.Require().NoError(err)
	s.Require().Equal(asset.NativeInfo("uusd"), info)
}

func (s *KeeperTestSuite) TestInitiateTokenTransfer() {
	contract := sdk.AccAddress("collateral_token____").String()
	s.f.Env.FundToken(s.T(), contract, s.user, math.NewInt(100))
	tok := asset.NewToken(contract, math.NewInt(40))
	var recipient [32]byte

	_, err := s.k.InitiateTransfer(s.ctx, s.user, tok, keepertest.RemoteChain, recipient, math.ZeroInt(), 1)
	s.Require().ErrorIs(err, asset.ErrLedger, "allowance required")

	s.Require().NoError(s.f.Env.Ledger.Approve(s.ctx, s.user, s.k.Address(), tok))
	_, err = s.k.InitiateTransfer(s.ctx, s.user, tok, keepertest.RemoteChain, recipient, math.ZeroInt(), 1)
	s.Require().NoError(err)
	s.Require().Equal(math.NewInt(40), s.f.Env.Balance(s.T(), s.k.Address(), tok.Info))
	s.Require().Equal(math.NewInt(60), s.f.Env.Balance(s.T(), s.user, tok.Info))

	_, err = s.k.InitiateTransfer(s.ctx, s.user, tok, types.DefaultHostChain, recipient, math.ZeroInt(), 1)
	s.Require().ErrorIs(err, types.ErrInvalidTransfer)
	_, err = s.k.InitiateTransfer(s.ctx, s.user, tok, keepertest.RemoteChain, recipient, math.NewInt(41), 1)
	s.Require().ErrorIs(err, types.ErrInvalidTransfer, "fee above amount")
}

func (s *KeeperTestSuite) TestSubmitTransfer() {
	s.f.Env.FundNative(s.T(), s.k.Address(), sdk.NewCoins(sdk.NewInt64Coin("uusd", 1_000)))
	raw := s.f.TransferVAA(s.T(), 4, s.nativeTransfer(1_000, 10, s.user))

	s.Require().NoError(s.k.SubmitTransfer(s.ctx, s.relayer, raw))
	s.Require().Equal(math.NewInt(990), s.f.Env.Balance(s.T(), s.user, asset.NativeInfo("uusd")))
	s.Require().Equal(math.NewInt(10), s.f.Env.Balance(s.T(), s.relayer, asset.NativeInfo("uusd")))
	s.Require().Equal(1, s.countEvents(types.EventTypeTransferCompleted))

	err := s.k.SubmitTransfer(s.ctx, s.relayer, raw)
	s.Require().ErrorIs(err, types.ErrVAAAlreadyExecuted)
	s.Require().Equal(math.NewInt(990), s.f.Env.Balance(s.T(), s.user, asset.NativeInfo("uusd")))
}

func (s *KeeperTestSuite) TestSubmitTransferChargesNativeTax() {
	s.f.Env.Tax.Rate = math.LegacyNewDecWithPrec(1, 2)
	s.f.Env.FundNative(s.T(), s.k.Address(), sdk.NewCoins(sdk.NewInt64Coin("uusd", 1_000)))
	raw := s.f.TransferVAA(s.T(), 4, s.nativeTransfer(1_000, 0, s.user))

	s.Require().NoError(s.k.SubmitTransfer(s.ctx, s.relayer, raw))
	s.Require().Equal(math.NewInt(990), s.f.Env.Balance(s.T(), s.user, asset.NativeInfo("uusd")))
	s.Require().Equal(math.NewInt(10), s.f.Env.Balance(s.T(), s.f.Env.TaxCollector, asset.NativeInfo("uusd")))
	s.Require().True(s.f.Env.Balance(s.T(), s.k.Address(), asset.NativeInfo("uusd")).IsZero())
}

func (s *KeeperTestSuite) TestSubmitTransferRejections() {
	s.f.Env.FundNative(s.T(), s.k.Address(), sdk.NewCoins(sdk.NewInt64Coin("uusd", 1_000)))

	// unknown emitter
	bz, err := s.nativeTransfer(100, 0, s.user).Encode()
	s.Require().NoError(err)
	obs := s.observation(1, bz)
	obs.EmitterChain = 5
	s.Require().ErrorIs(s.k.SubmitTransfer(s.ctx, s.relayer, s.f.Guardians.Sign(s.T(), obs)), types.ErrUnknownForeignBridge)

	// wrapped assets from other chains are not supported
	p := s.nativeTransfer(100, 0, s.user)
	p.TokenChain = keepertest.RemoteChain
	s.Require().ErrorIs(s.k.SubmitTransfer(s.ctx, s.relayer, s.f.TransferVAA(s.T(), 2, p)), types.ErrInvalidTransfer)

	p = s.nativeTransfer(100, 0, s.user)
	p.RecipientChain = 9
	s.Require().ErrorIs(s.k.SubmitTransfer(s.ctx, s.relayer, s.f.TransferVAA(s.T(), 3, p)), types.ErrInvalidTransfer)

	// a non-transfer payload from the trusted emitter
	s.Require().ErrorIs(s.k.SubmitTransfer(s.ctx, s.relayer, s.f.Guardians.Sign(s.T(), s.observation(4, []byte{2, 0}))), types.ErrInvalidTransfer)

	s.Require().True(s.f.Env.Balance(s.T(), s.user, asset.NativeInfo("uusd")).IsZero())
}

func (s *KeeperTestSuite) TestRegisterForeignBridge() {
	var emitter [32]byte
	emitter[0] = 9
	s.Require().ErrorIs(s.k.RegisterForeignBridge(s.ctx, s.user, 7, emitter), sdkerrors.ErrUnauthorized)
	s.Require().ErrorIs(s.k.RegisterForeignBridge(s.ctx, s.f.Owner, types.DefaultHostChain, emitter), types.ErrUnknownForeignBridge)
	s.Require().NoError(s.k.RegisterForeignBridge(s.ctx, s.f.Owner, 7, emitter))
	got, found := s.k.GetForeignBridge(s.ctx, 7)
	s.Require().True(found)
	s.Require().Equal(emitter, got)
	s.Require().Len(s.k.GetAllForeignBridges(s.ctx), 2)
}

func (s *KeeperTestSuite) TestMsgServerSubmitTransferIsAtomic() {
	ms := keeper.NewMsgServerImpl(*s.k)
	// custody cannot cover the transfer, so nothing may be recorded
	raw := s.f.TransferVAA(s.T(), 4, s.nativeTransfer(1_000, 0, s.user))
	_, err := ms.SubmitTransfer(s.ctx, &types.MsgSubmitTransfer{Sender: s.relayer.String(), VAA: raw})
	s.Require().ErrorIs(err, asset.ErrLedger)

	s.f.Env.FundNative(s.T(), s.k.Address(), sdk.NewCoins(sdk.NewInt64Coin("uusd", 1_000)))
	_, err = ms.SubmitTransfer(s.ctx, &types.MsgSubmitTransfer{Sender: s.relayer.String(), VAA: raw})
	s.Require().NoError(err, "a failed submission must not mark the VAA executed")
}

func (s *KeeperTestSuite) TestGenesisRoundTrip() {
	_, err := s.k.PostMessage(s.ctx, s.user, []byte("m"), 1)
	s.Require().NoError(err)
	s.f.Env.FundNative(s.T(), s.k.Address(), sdk.NewCoins(sdk.NewInt64Coin("uusd", 100)))
	raw := s.f.TransferVAA(s.T(), 4, s.nativeTransfer(100, 0, s.user))
	s.Require().NoError(s.k.SubmitTransfer(s.ctx, s.relayer, raw))

	exported := s.k.ExportGenesis(s.ctx)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.GuardianSets, 1)
	s.Require().Len(exported.ForeignBridges, 1)
	s.Require().Len(exported.Sequences, 1)
	s.Require().Len(exported.ExecutedTransfers, 1)
	s.Require().Len(exported.Messages, 1)

	env := keepertest.NewEnv(s.T(), types.StoreKey)
	k2 := keeper.NewKeeper(env.StoreKey(types.StoreKey), env.Ledger)
	s.Require().NoError(k2.InitGenesis(env.Ctx, *exported))
	s.Require().Equal(uint64(1), k2.NextSequence(env.Ctx, types.Bytes32(s.user)))
	s.Require().ErrorIs(k2.SubmitTransfer(env.Ctx, s.relayer, raw), types.ErrVAAAlreadyExecuted)
}
