package keeper_test

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	keepertest "github.com/paw-chain/crosslend/testutil/keeper"
	proxytypes "github.com/paw-chain/crosslend/x/proxy/types"
	"github.com/paw-chain/crosslend/x/router/keeper"
	"github.com/paw-chain/crosslend/x/router/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

type KeeperTestSuite struct {
	suite.Suite

	f      *keepertest.RouterFixture
	ctx    sdk.Context
	k      *keeper.Keeper
	origin sharedkeeper.Origin
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (s *KeeperTestSuite) SetupTest() {
	s.f = keepertest.RouterKeeper(s.T())
	s.ctx = s.f.Env.Ctx
	s.k = s.f.Router

	var sender [32]byte
	sender[31] = 0x01
	s.origin = sharedkeeper.Origin{Chain: 2, Sender: sender, Sequence: 11}
}

func (s *KeeperTestSuite) provision() sdk.AccAddress {
	s.Require().NoError(s.k.InitializeProxy(s.ctx, s.f.Bridge, s.origin.Chain, s.origin.Sender))
	proxy, found := s.k.GetProxyAddress(s.ctx, s.origin.Chain, s.origin.Sender)
	s.Require().True(found)
	return proxy
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

func (s *KeeperTestSuite) TestInitializeProxyIsIdempotent() {
	proxy := s.provision()
	s.Require().Equal(sdk.AccAddress(proxytypes.DeriveAddress(2, s.origin.Sender)), proxy)
	s.Require().False(s.k.IsProvisioning(s.ctx, s.origin.Chain, s.origin.Sender))
	s.Require().Equal(1, s.countEvents(proxytypes.EventTypeProxyInstantiated))

	// second request: no instantiation
	s.Require().NoError(s.k.InitializeProxy(s.ctx, s.f.Bridge, s.origin.Chain, s.origin.Sender))
	s.Require().Equal(1, s.countEvents(proxytypes.EventTypeProxyInstantiated))
	s.Require().Equal(1, s.countEvents(types.EventTypeProxyProvisioned))
}

func (s *KeeperTestSuite) TestInitializeProxyRequiresWhitelist() {
	err := s.k.InitializeProxy(s.ctx, s.f.Owner, s.origin.Chain, s.origin.Sender)
	s.Require().ErrorIs(err, types.ErrNotWhitelisted)
	_, found := s.k.GetProxyAddress(s.ctx, s.origin.Chain, s.origin.Sender)
	s.Require().False(found)
}

func (s *KeeperTestSuite) TestDistinctUsersGetDistinctProxies() {
	a := s.provision()

	other := s.origin.Sender
	other[31] = 0x02
	s.Require().NoError(s.k.InitializeProxy(s.ctx, s.f.Bridge, 2, other))
	b, found := s.k.GetProxyAddress(s.ctx, 2, other)
	s.Require().True(found)
	s.Require().NotEqual(a, b)

	// same address on another chain is another user
	s.Require().NoError(s.k.InitializeProxy(s.ctx, s.f.Bridge, 5, s.origin.Sender))
	c, found := s.k.GetProxyAddress(s.ctx, 5, s.origin.Sender)
	s.Require().True(found)
	s.Require().NotEqual(a, c)

	s.Require().Len(s.k.GetAllProxies(s.ctx), 3)
}

func (s *KeeperTestSuite) TestRequestWhileProvisioningIsNoop() {
	pending := types.PendingProvision{CorrelationID: 42, Chain: s.origin.Chain, RemoteAddress: s.origin.Sender[:]}
	bz, err := json.Marshal(pending)
	s.Require().NoError(err)
	store := s.ctx.KVStore(s.f.Env.StoreKey(types.StoreKey))
	store.Set(types.GetPendingProvisionKey(42), bz)
	store.Set(types.GetInFlightKey(s.origin.Chain, s.origin.Sender), sdk.Uint64ToBigEndian(42))
	s.Require().True(s.k.IsProvisioning(s.ctx, s.origin.Chain, s.origin.Sender))

	s.Require().NoError(s.k.InitializeProxy(s.ctx, s.f.Bridge, s.origin.Chain, s.origin.Sender))
	s.Require().Zero(s.countEvents(types.EventTypeProxyRequested))
	s.Require().Zero(s.countEvents(proxytypes.EventTypeProxyInstantiated))
	_, found := s.k.GetProxyAddress(s.ctx, s.origin.Chain, s.origin.Sender)
	s.Require().False(found)

	proxy := sdk.AccAddress("late_proxy__________")
	s.Require().NoError(s.k.OnInstantiateReply(s.ctx, proxytypes.InstantiateReply{CorrelationID: 42, Address: proxy}))
	got, found := s.k.GetProxyAddress(s.ctx, s.origin.Chain, s.origin.Sender)
	s.Require().True(found)
	s.Require().Equal(proxy, got)
	s.Require().False(s.k.IsProvisioning(s.ctx, s.origin.Chain, s.origin.Sender))

	err = s.k.OnInstantiateReply(s.ctx, proxytypes.InstantiateReply{CorrelationID: 42, Address: proxy})
	s.Require().ErrorIs(err, types.ErrPendingProvisionNotFound)
}

func (s *KeeperTestSuite) TestInstantiateReplyForUnknownCorrelation() {
	err := s.k.OnInstantiateReply(s.ctx, proxytypes.InstantiateReply{CorrelationID: 99, Address: s.f.Owner})
	s.Require().ErrorIs(err, types.ErrPendingProvisionNotFound)
}

func (s *KeeperTestSuite) TestAdminOps() {
	newBridge := sdk.AccAddress("bridge_two__________")

	_, err := s.k.AddBridges(s.ctx, s.f.Bridge, []sdk.AccAddress{newBridge})
	s.Require().ErrorIs(err, sdkerrors.ErrUnauthorized)

	added, err := s.k.AddBridges(s.ctx, s.f.Owner, []sdk.AccAddress{newBridge, s.f.Bridge})
	s.Require().NoError(err)
	s.Require().Equal(uint32(1), added)
	s.Require().True(s.k.IsWhitelisted(s.ctx, newBridge))

	newOwner := sdk.AccAddress("new_owner___________")
	s.Require().NoError(s.k.UpdateConfig(s.ctx, s.f.Owner, newOwner.String(), 3))
	cfg, err := s.k.GetConfig(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(newOwner.String(), cfg.Owner)
	s.Require().Equal(uint64(3), cfg.ProxyCodeID)

	s.Require().ErrorIs(s.k.UpdateConfig(s.ctx, s.f.Owner, "", 4), sdkerrors.ErrUnauthorized)
}

func (s *KeeperTestSuite) TestOpsRequireProvisionedProxy() {
	err := s.k.BorrowStable(s.ctx, s.f.Bridge, s.origin, math.NewInt(10))
	s.Require().ErrorIs(err, types.ErrProxyNotFound)
}

func (s *KeeperTestSuite) TestOpsRequireWhitelist() {
	s.provision()
	err := s.k.ClaimRewards(s.ctx, s.f.Owner, s.origin)
	s.Require().ErrorIs(err, types.ErrNotWhitelisted)
	s.Require().Empty(s.f.Market.Calls)
}

func (s *KeeperTestSuite) TestDepositStableRelaysATokens() {
	s.f.Env.FundNative(s.T(), s.f.Bridge, sdk.NewCoins(sdk.NewInt64Coin("uusd", 1_000_000)))

	err := s.k.DepositStable(s.ctx, s.f.Bridge, s.origin, asset.NewNative("uusd", math.NewInt(1_000_000)))
	s.Require().NoError(err)

	deposits := s.f.Market.CallsOf("deposit_stable")
	s.Require().Len(deposits, 1)
	s.Require().Equal(s.k.ModuleAddress(), deposits[0].Account)
	s.Require().Equal(math.NewInt(1_000_000), deposits[0].Amount)

	s.Require().Len(s.f.Relay.Sent, 1)
	sent := s.f.Relay.Sent[0]
	s.Require().Equal(s.origin, sent.Origin)
	s.Require().Equal(asset.NewToken(s.f.Market.AToken, math.NewInt(1_000_000)), sent.Asset)
	// aTokens now sit with the bridge, ready to be relayed
	s.Require().Equal(math.NewInt(1_000_000), s.f.Env.Balance(s.T(), s.f.Bridge, asset.TokenInfo(s.f.Market.AToken)))
}

func (s *KeeperTestSuite) TestDepositRejectsWrongDenom() {
	err := s.k.DepositStable(s.ctx, s.f.Bridge, s.origin, asset.NewNative("uluna", math.NewInt(5)))
	s.Require().ErrorIs(err, types.ErrInvalidAsset)
}

func (s *KeeperTestSuite) TestRedeemStable() {
	s.f.Env.FundToken(s.T(), s.f.Market.AToken, s.f.Bridge, math.NewInt(300))
	s.f.Env.FundNative(s.T(), s.f.Market.Pool, sdk.NewCoins(sdk.NewInt64Coin("uusd", 300)))

	err := s.k.RedeemStable(s.ctx, s.f.Bridge, s.origin, asset.NewToken(s.f.Market.AToken, math.NewInt(300)))
	s.Require().NoError(err)
	s.Require().Len(s.f.Relay.Sent, 1)
	s.Require().Equal(asset.NewNative("uusd", math.NewInt(300)), s.f.Relay.Sent[0].Asset)
}

func (s *KeeperTestSuite) TestRepayGoesThroughProxy() {
	proxy := s.provision()
	s.f.Env.FundNative(s.T(), s.f.Bridge, sdk.NewCoins(sdk.NewInt64Coin("uusd", 400)))

	s.Require().NoError(s.k.RepayStable(s.ctx, s.f.Bridge, s.origin, asset.NewNative("uusd", math.NewInt(400))))
	repays := s.f.Market.CallsOf("repay_stable")
	s.Require().Len(repays, 1)
	s.Require().Equal(proxy, repays[0].Account)
	s.Require().Empty(s.f.Relay.Sent)
}

func (s *KeeperTestSuite) TestOpsRefreshProxyCode() {
	proxy := s.provision()
	s.Require().NoError(s.k.UpdateConfig(s.ctx, s.f.Owner, "", 9))

	_ = s.k.ClaimRewards(s.ctx, s.f.Bridge, s.origin)
	inst, found := s.f.Proxy.GetInstance(s.ctx, proxy)
	s.Require().True(found)
	s.Require().Equal(uint64(9), inst.CodeID)
}

func (s *KeeperTestSuite) TestLockUnlockCollateral() {
	proxy := s.provision()
	token := sdk.AccAddress("bluna_______________").String()
	s.f.Market.AddCustody(token)
	s.f.Env.FundToken(s.T(), token, s.f.Bridge, math.NewInt(800))

	s.Require().NoError(s.k.LockCollateral(s.ctx, s.f.Bridge, s.origin, asset.NewToken(token, math.NewInt(800))))
	s.Require().Equal(math.NewInt(800), s.f.Market.Locked[proxy.String()+"/"+token])

	s.Require().NoError(s.k.UnlockCollateral(s.ctx, s.f.Bridge, s.origin, token, math.NewInt(500)))
	s.Require().Len(s.f.Relay.Sent, 1)
	s.Require().Equal(asset.NewToken(token, math.NewInt(500)), s.f.Relay.Sent[0].Asset)
	s.Require().Equal(math.NewInt(500), s.f.Env.Balance(s.T(), s.f.Bridge, asset.TokenInfo(token)))
	s.Require().True(s.f.Env.Balance(s.T(), s.k.ModuleAddress(), asset.TokenInfo(token)).IsZero())
}

func (s *KeeperTestSuite) TestBorrowAndClaim() {
	s.provision()
	s.f.Env.FundNative(s.T(), s.f.Market.Pool, sdk.NewCoins(sdk.NewInt64Coin("uusd", 5_000)))

	s.Require().NoError(s.k.BorrowStable(s.ctx, s.f.Bridge, s.origin, math.NewInt(1_200)))
	s.Require().NoError(s.k.ClaimRewards(s.ctx, s.f.Bridge, s.origin))

	s.Require().Len(s.f.Relay.Sent, 2)
	s.Require().Equal(asset.NewNative("uusd", math.NewInt(1_200)), s.f.Relay.Sent[0].Asset)
	s.Require().Equal(asset.NewToken(s.f.Market.RewardToken, s.f.Market.RewardPerClaim), s.f.Relay.Sent[1].Asset)
}

func (s *KeeperTestSuite) TestZeroOutputIsNotRelayed() {
	s.provision()
	s.f.Market.RewardPerClaim = math.ZeroInt()

	s.Require().NoError(s.k.ClaimRewards(s.ctx, s.f.Bridge, s.origin))
	s.Require().Empty(s.f.Relay.Sent)
}

func (s *KeeperTestSuite) TestUnknownRelay() {
	other := sdk.AccAddress("bridge_no_relay_____")
	_, err := s.k.AddBridges(s.ctx, s.f.Owner, []sdk.AccAddress{other})
	s.Require().NoError(err)
	s.Require().NoError(s.k.InitializeProxy(s.ctx, other, s.origin.Chain, s.origin.Sender))

	err = s.k.ClaimRewards(s.ctx, other, s.origin)
	s.Require().ErrorIs(err, types.ErrUnknownRelay)
}

func (s *KeeperTestSuite) TestGovernancePassthrough() {
	proxy := s.provision()
	s.f.Env.FundToken(s.T(), s.f.Market.RewardToken, s.f.Bridge, math.NewInt(50))

	s.Require().NoError(s.k.StakeVotingTokens(s.ctx, s.f.Bridge, s.origin, asset.NewToken(s.f.Market.RewardToken, math.NewInt(50))))
	s.Require().NoError(s.k.CastVote(s.ctx, s.f.Bridge, s.origin, 1, "no", math.NewInt(50)))
	s.Require().NoError(s.k.WithdrawVotingTokens(s.ctx, s.f.Bridge, s.origin, math.NewInt(50)))

	s.Require().Len(s.f.Market.CallsOf("cast_vote:1:no"), 1)
	s.Require().Equal(math.NewInt(50), s.f.Env.Balance(s.T(), proxy, asset.TokenInfo(s.f.Market.RewardToken)))
}

func (s *KeeperTestSuite) TestGovernanceMsgs() {
	proxy := s.provision()
	s.f.Env.FundToken(s.T(), s.f.Market.RewardToken, s.f.Bridge, math.NewInt(80))
	ms := keeper.NewMsgServerImpl(*s.k)

	origin := types.GovernanceOrigin{
		Sender:        s.f.Bridge.String(),
		Chain:         s.origin.Chain,
		RemoteAddress: s.origin.Sender[:],
		Sequence:      12,
	}
	_, err := ms.StakeVotingTokens(s.ctx, &types.MsgStakeVotingTokens{GovernanceOrigin: origin, Amount: math.NewInt(80)})
	s.Require().NoError(err)
	_, err = ms.CastVote(s.ctx, &types.MsgCastVote{GovernanceOrigin: origin, PollID: 3, Vote: "yes", Amount: math.NewInt(80)})
	s.Require().NoError(err)
	_, err = ms.WithdrawVotingTokens(s.ctx, &types.MsgWithdrawVotingTokens{GovernanceOrigin: origin, Amount: math.NewInt(30)})
	s.Require().NoError(err)

	s.Require().Len(s.f.Market.CallsOf("cast_vote:3:yes"), 1)
	s.Require().Equal(math.NewInt(30), s.f.Env.Balance(s.T(), proxy, asset.TokenInfo(s.f.Market.RewardToken)))

	// only whitelisted bridges act for remote users
	outsider := origin
	outsider.Sender = s.f.Owner.String()
	_, err = ms.WithdrawVotingTokens(s.ctx, &types.MsgWithdrawVotingTokens{GovernanceOrigin: outsider, Amount: math.NewInt(1)})
	s.Require().ErrorIs(err, types.ErrNotWhitelisted)

	_, err = ms.CastVote(s.ctx, &types.MsgCastVote{GovernanceOrigin: origin, PollID: 3, Vote: "maybe", Amount: math.NewInt(1)})
	s.Require().ErrorIs(err, sdkerrors.ErrInvalidRequest)

	short := origin
	short.RemoteAddress = []byte{0x01}
	s.Require().ErrorIs(types.MsgStakeVotingTokens{GovernanceOrigin: short, Amount: math.NewInt(1)}.ValidateBasic(), sdkerrors.ErrInvalidRequest)
	s.Require().ErrorIs(types.MsgStakeVotingTokens{GovernanceOrigin: origin}.ValidateBasic(), sdkerrors.ErrInvalidRequest)
}

func (s *KeeperTestSuite) TestQueryServer() {
	qs := keeper.NewQueryServerImpl(*s.k)
	proxy := s.provision()

	resp, err := qs.ProxyAddress(s.ctx, &types.QueryProxyAddressRequest{Chain: s.origin.Chain, RemoteAddress: s.origin.Sender[:]})
	s.Require().NoError(err)
	s.Require().Equal(proxy.String(), resp.Proxy)

	_, err = qs.ProxyAddress(s.ctx, &types.QueryProxyAddressRequest{Chain: 9, RemoteAddress: s.origin.Sender[:]})
	s.Require().Equal(codes.NotFound, status.Code(err))
	_, err = qs.ProxyAddress(s.ctx, &types.QueryProxyAddressRequest{Chain: 2, RemoteAddress: []byte{0x01}})
	s.Require().Equal(codes.InvalidArgument, status.Code(err))

	wl, err := qs.IsWhitelisted(s.ctx, &types.QueryIsWhitelistedRequest{Address: s.f.Bridge.String()})
	s.Require().NoError(err)
	s.Require().True(wl.Whitelisted)
	_, err = qs.IsWhitelisted(s.ctx, &types.QueryIsWhitelistedRequest{Address: "not-bech32"})
	s.Require().Equal(codes.InvalidArgument, status.Code(err))

	_, err = qs.Config(s.ctx, nil)
	s.Require().Equal(codes.InvalidArgument, status.Code(err))
}

func (s *KeeperTestSuite) TestGenesisRoundTrip() {
	s.provision()
	exported := s.k.ExportGenesis(s.ctx)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.Proxies, 1)
	s.Require().Len(exported.Bridges, 1)
	s.Require().Equal(uint64(2), exported.NextCorrelationID)

	f2 := keepertest.RouterKeeper(s.T())
	s.Require().NoError(f2.Router.InitGenesis(f2.Env.Ctx, *exported))
	proxy, found := f2.Router.GetProxyAddress(f2.Env.Ctx, s.origin.Chain, s.origin.Sender)
	s.Require().True(found)
	s.Require().Equal(exported.Proxies[0].Proxy, proxy.String())
}
