package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/shared/asset"
)

// TokenStoreKey is the store backing MockTokens.
const TokenStoreKey = "mocktokens"

var (
	tokenBalancePrefix   = []byte{0x01}
	tokenAllowancePrefix = []byte{0x02}
)

// MockTokens is a minimal store-backed token ledger so that balances follow
// cache-context commits and rollbacks like any other module state.
type MockTokens struct {
	storeKey storetypes.StoreKey
}

var _ asset.TokenKeeper = (*MockTokens)(nil)

func NewMockTokens(storeKey storetypes.StoreKey) *MockTokens {
	return &MockTokens{storeKey: storeKey}
}

func balanceKey(contract string, holder sdk.AccAddress) []byte {
	key := append([]byte{}, tokenBalancePrefix...)
	key = append(key, []byte(contract)...)
	key = append(key, 0x00)
	return append(key, holder...)
}

func allowanceKey(contract string, owner, spender sdk.AccAddress) []byte {
	key := append([]byte{}, tokenAllowancePrefix...)
	key = append(key, []byte(contract)...)
	key = append(key, 0x00)
	key = append(key, padded(owner)...)
	return append(key, spender...)
}

func padded(addr sdk.AccAddress) []byte {
	out := make([]byte, 32)
	copy(out[32-len(addr):], addr)
	return out
}

func (m *MockTokens) get(ctx context.Context, key []byte) math.Int {
	bz := sdk.UnwrapSDKContext(ctx).KVStore(m.storeKey).Get(key)
	if bz == nil {
		return math.ZeroInt()
	}
	var v math.Int
	if err := v.Unmarshal(bz); err != nil {
		panic(err)
	}
	return v
}

func (m *MockTokens) set(ctx context.Context, key []byte, v math.Int) {
	bz, err := v.Marshal()
	if err != nil {
		panic(err)
	}
	sdk.UnwrapSDKContext(ctx).KVStore(m.storeKey).Set(key, bz)
}

// Mint credits holder with amount of contract.
func (m *MockTokens) Mint(ctx context.Context, contract string, holder sdk.AccAddress, amount math.Int) error {
	key := balanceKey(contract, holder)
	m.set(ctx, key, m.get(ctx, key).Add(amount))
	return nil
}

// Burn debits holder.
func (m *MockTokens) Burn(ctx context.Context, contract string, holder sdk.AccAddress, amount math.Int) error {
	key := balanceKey(contract, holder)
	bal := m.get(ctx, key)
	if bal.LT(amount) {
		return fmt.Errorf("insufficient %s balance: %s < %s", contract, bal, amount)
	}
	m.set(ctx, key, bal.Sub(amount))
	return nil
}

func (m *MockTokens) Balance(ctx context.Context, contract string, holder sdk.AccAddress) (math.Int, error) {
	return m.get(ctx, balanceKey(contract, holder)), nil
}

func (m *MockTokens) Transfer(ctx context.Context, contract string, from, to sdk.AccAddress, amount math.Int) error {
	if err := m.Burn(ctx, contract, from, amount); err != nil {
		return err
	}
	return m.Mint(ctx, contract, to, amount)
}

func (m *MockTokens) IncreaseAllowance(ctx context.Context, contract string, owner, spender sdk.AccAddress, amount math.Int) error {
	key := allowanceKey(contract, owner, spender)
	m.set(ctx, key, m.get(ctx, key).Add(amount))
	return nil
}

// Allowance returns what spender may still pull from owner.
func (m *MockTokens) Allowance(ctx context.Context, contract string, owner, spender sdk.AccAddress) math.Int {
	return m.get(ctx, allowanceKey(contract, owner, spender))
}

func (m *MockTokens) TransferFrom(ctx context.Context, contract string, spender, owner, to sdk.AccAddress, amount math.Int) error {
	key := allowanceKey(contract, owner, spender)
	allowance := m.get(ctx, key)
	if allowance.LT(amount) {
		return fmt.Errorf("allowance %s below %s", allowance, amount)
	}
	if err := m.Transfer(ctx, contract, owner, to, amount); err != nil {
		return err
	}
	m.set(ctx, key, allowance.Sub(amount))
	return nil
}

// MockTax charges Rate of each native transfer, capped at Cap when Cap is set.
type MockTax struct {
	Rate math.LegacyDec
	Cap  math.Int
}

var _ asset.TaxKeeper = (*MockTax)(nil)

func (m *MockTax) ComputeTax(_ context.Context, coin sdk.Coin) (math.Int, error) {
	if m.Rate.IsNil() || m.Rate.IsZero() {
		return math.ZeroInt(), nil
	}
	tax := m.Rate.MulInt(coin.Amount).TruncateInt()
	if !m.Cap.IsNil() && tax.GT(m.Cap) {
		tax = m.Cap
	}
	return tax, nil
}
