package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// MarketCall is one recorded money market invocation.
type MarketCall struct {
	Op      string
	Account sdk.AccAddress
	Token   string
	Amount  math.Int
}

// MockMoneyMarket is a 1:1 lending pool over the Env ledger. Stable deposits
// mint aTokens, borrows pay out of the pool account and claims mint a fixed
// reward. Failures can be injected per operation through Fail.
type MockMoneyMarket struct {
	Pool           sdk.AccAddress
	StableDenom    string
	AToken         string
	RewardToken    string
	RewardPerClaim math.Int
	Custody        map[string]sdk.AccAddress
	Locked         map[string]math.Int
	Fail           map[string]error
	Calls          []MarketCall

	ledger asset.Ledger
	tokens *MockTokens
}

var _ sharedkeeper.MoneyMarketGovV1 = (*MockMoneyMarket)(nil)

// NewMockMoneyMarket returns a market using env's ledger and token keeper.
func NewMockMoneyMarket(env *Env) *MockMoneyMarket {
	return &MockMoneyMarket{
		Pool:           sdk.AccAddress("market_pool_________"),
		StableDenom:    "uusd",
		AToken:         sdk.AccAddress("market_atoken_______").String(),
		RewardToken:    sdk.AccAddress("market_reward_______").String(),
		RewardPerClaim: math.NewInt(1_000),
		Custody:        map[string]sdk.AccAddress{},
		Locked:         map[string]math.Int{},
		Fail:           map[string]error{},
		ledger:         env.Ledger,
		tokens:         env.Tokens,
	}
}

// AddCustody registers a collateral token and returns its custody account.
func (m *MockMoneyMarket) AddCustody(token string) sdk.AccAddress {
	custody := sdk.AccAddress([]byte(fmt.Sprintf("custody_%012d", len(m.Custody))))
	m.Custody[token] = custody
	return custody
}

// CallsOf returns the recorded calls of op.
func (m *MockMoneyMarket) CallsOf(op string) []MarketCall {
	var out []MarketCall
	for _, c := range m.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockMoneyMarket) record(op string, account sdk.AccAddress, token string, amount math.Int) error {
	if err, ok := m.Fail[op]; ok {
		return err
	}
	m.Calls = append(m.Calls, MarketCall{Op: op, Account: account, Token: token, Amount: amount})
	return nil
}

func lockKey(borrower sdk.AccAddress, token string) string {
	return borrower.String() + "/" + token
}

func (m *MockMoneyMarket) DepositStable(ctx context.Context, depositor sdk.AccAddress, amount sdk.Coin) error {
	if err := m.record("deposit_stable", depositor, amount.Denom, amount.Amount); err != nil {
		return err
	}
	if amount.Denom != m.StableDenom {
		return fmt.Errorf("unsupported deposit denom %s", amount.Denom)
	}
	if err := m.ledger.Transfer(ctx, depositor, m.Pool, asset.FromCoin(amount)); err != nil {
		return err
	}
	return m.tokens.Mint(ctx, m.AToken, depositor, amount.Amount)
}

func (m *MockMoneyMarket) RedeemStable(ctx context.Context, redeemer sdk.AccAddress, amount math.Int) error {
	if err := m.record("redeem_stable", redeemer, m.AToken, amount); err != nil {
		return err
	}
	if err := m.tokens.Burn(ctx, m.AToken, redeemer, amount); err != nil {
		return err
	}
	return m.ledger.Transfer(ctx, m.Pool, redeemer, asset.NewNative(m.StableDenom, amount))
}

func (m *MockMoneyMarket) RepayStable(ctx context.Context, borrower sdk.AccAddress, amount sdk.Coin) error {
	if err := m.record("repay_stable", borrower, amount.Denom, amount.Amount); err != nil {
		return err
	}
	return m.ledger.Transfer(ctx, borrower, m.Pool, asset.FromCoin(amount))
}

func (m *MockMoneyMarket) BorrowStable(ctx context.Context, borrower sdk.AccAddress, amount math.Int) error {
	if err := m.record("borrow_stable", borrower, m.StableDenom, amount); err != nil {
		return err
	}
	return m.ledger.Transfer(ctx, m.Pool, borrower, asset.NewNative(m.StableDenom, amount))
}

func (m *MockMoneyMarket) ClaimRewards(ctx context.Context, claimer sdk.AccAddress) error {
	if err := m.record("claim_rewards", claimer, m.RewardToken, m.RewardPerClaim); err != nil {
		return err
	}
	return m.tokens.Mint(ctx, m.RewardToken, claimer, m.RewardPerClaim)
}

func (m *MockMoneyMarket) CustodyForToken(_ context.Context, token string) (sdk.AccAddress, error) {
	custody, ok := m.Custody[token]
	if !ok {
		return nil, fmt.Errorf("no custody for %s", token)
	}
	return custody, nil
}

func (m *MockMoneyMarket) DepositCollateral(ctx context.Context, custody, depositor sdk.AccAddress, token string, amount math.Int) error {
	if err := m.record("deposit_collateral", depositor, token, amount); err != nil {
		return err
	}
	return m.tokens.Transfer(ctx, token, depositor, custody, amount)
}

func (m *MockMoneyMarket) LockCollateral(_ context.Context, borrower sdk.AccAddress, token string, amount math.Int) error {
	if err := m.record("lock_collateral", borrower, token, amount); err != nil {
		return err
	}
	key := lockKey(borrower, token)
	locked, ok := m.Locked[key]
	if !ok {
		locked = math.ZeroInt()
	}
	m.Locked[key] = locked.Add(amount)
	return nil
}

func (m *MockMoneyMarket) UnlockCollateral(_ context.Context, borrower sdk.AccAddress, token string, amount math.Int) error {
	if err := m.record("unlock_collateral", borrower, token, amount); err != nil {
		return err
	}
	key := lockKey(borrower, token)
	locked, ok := m.Locked[key]
	if !ok || locked.LT(amount) {
		return fmt.Errorf("cannot unlock %s of %s", amount, token)
	}
	m.Locked[key] = locked.Sub(amount)
	return nil
}

func (m *MockMoneyMarket) WithdrawCollateral(ctx context.Context, custody, borrower sdk.AccAddress, token string, amount math.Int) error {
	if err := m.record("withdraw_collateral", borrower, token, amount); err != nil {
		return err
	}
	return m.tokens.Transfer(ctx, token, custody, borrower, amount)
}

func (m *MockMoneyMarket) StakeVotingTokens(ctx context.Context, staker sdk.AccAddress, amount math.Int) error {
	if err := m.record("stake_voting_tokens", staker, m.RewardToken, amount); err != nil {
		return err
	}
	return m.tokens.Transfer(ctx, m.RewardToken, staker, m.Pool, amount)
}

func (m *MockMoneyMarket) WithdrawVotingTokens(ctx context.Context, staker sdk.AccAddress, amount math.Int) error {
	if err := m.record("withdraw_voting_tokens", staker, m.RewardToken, amount); err != nil {
		return err
	}
	return m.tokens.Transfer(ctx, m.RewardToken, m.Pool, staker, amount)
}

func (m *MockMoneyMarket) CastVote(_ context.Context, voter sdk.AccAddress, pollID uint64, vote string, amount math.Int) error {
	return m.record(fmt.Sprintf("cast_vote:%d:%s", pollID, vote), voter, m.RewardToken, amount)
}
