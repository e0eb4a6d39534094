package asset

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper is the subset of the bank module used to move native denoms.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
}

// TokenKeeper moves balances held in host token contracts.
type TokenKeeper interface {
	Balance(ctx context.Context, contract string, holder sdk.AccAddress) (math.Int, error)
	Transfer(ctx context.Context, contract string, from, to sdk.AccAddress, amount math.Int) error
	IncreaseAllowance(ctx context.Context, contract string, owner, spender sdk.AccAddress, amount math.Int) error
	TransferFrom(ctx context.Context, contract string, spender, owner, to sdk.AccAddress, amount math.Int) error
}

// TaxKeeper reports the host transfer tax charged on a native coin transfer.
type TaxKeeper interface {
	ComputeTax(ctx context.Context, coin sdk.Coin) (math.Int, error)
}

// Ledger reads and moves assets of either kind.
type Ledger struct {
	bank      BankKeeper
	tokens    TokenKeeper
	tax       TaxKeeper
	collector sdk.AccAddress
}

// NewLedger returns a Ledger. A nil TaxKeeper charges no tax.
func NewLedger(bank BankKeeper, tokens TokenKeeper, tax TaxKeeper) Ledger {
	return Ledger{bank: bank, tokens: tokens, tax: tax}
}

// WithTaxCollector returns a copy of l that pays transfer tax to collector.
func (l Ledger) WithTaxCollector(collector sdk.AccAddress) Ledger {
	l.collector = collector
	return l
}

// Approve lets spender pull up to a from owner. Only token assets carry allowances.
func (l Ledger) Approve(ctx context.Context, owner, spender sdk.AccAddress, a Asset) error {
	if a.Info.IsNative() {
		return ErrInvalidAsset.Wrapf("native %s has no allowance", a.Info.Denom)
	}
	if l.tokens == nil {
		return ErrLedger.Wrap("token keeper not configured")
	}
	if err := l.tokens.IncreaseAllowance(ctx, a.Info.Contract, owner, spender, a.Amount); err != nil {
		return ErrLedger.Wrapf("approve %s: %s", a, err)
	}
	return nil
}

// TransferFrom moves token a from owner to to using spender's allowance.
func (l Ledger) TransferFrom(ctx context.Context, spender, owner, to sdk.AccAddress, a Asset) error {
	if a.Info.IsNative() {
		return ErrInvalidAsset.Wrapf("native %s has no allowance", a.Info.Denom)
	}
	if l.tokens == nil {
		return ErrLedger.Wrap("token keeper not configured")
	}
	if err := l.tokens.TransferFrom(ctx, a.Info.Contract, spender, owner, to, a.Amount); err != nil {
		return ErrLedger.Wrapf("transfer %s from %s: %s", a, owner, err)
	}
	return nil
}

// Balance returns the amount of info held by holder.
func (l Ledger) Balance(ctx context.Context, holder sdk.AccAddress, info Info) (math.Int, error) {
	if info.IsNative() {
		return l.bank.GetBalance(ctx, holder, info.Denom).Amount, nil
	}
	if l.tokens == nil {
		return math.ZeroInt(), ErrLedger.Wrap("token keeper not configured")
	}
	bal, err := l.tokens.Balance(ctx, info.Contract, holder)
	if err != nil {
		return math.ZeroInt(), ErrLedger.Wrapf("balance of %s: %s", info.Contract, err)
	}
	return bal, nil
}

// Transfer moves a from one account to another. Zero amounts are a no-op.
func (l Ledger) Transfer(ctx context.Context, from, to sdk.AccAddress, a Asset) error {
	if a.Amount.IsZero() {
		return nil
	}
	if a.Info.IsNative() {
		if err := l.bank.SendCoins(ctx, from, to, sdk.NewCoins(sdk.NewCoin(a.Info.Denom, a.Amount))); err != nil {
			return ErrLedger.Wrapf("send %s: %s", a, err)
		}
		return nil
	}
	if l.tokens == nil {
		return ErrLedger.Wrap("token keeper not configured")
	}
	if err := l.tokens.Transfer(ctx, a.Info.Contract, from, to, a.Amount); err != nil {
		return ErrLedger.Wrapf("transfer %s: %s", a, err)
	}
	return nil
}

// DeductTax returns the amount of a that arrives after the host transfer tax.
// Token assets are returned unchanged.
func (l Ledger) DeductTax(ctx context.Context, a Asset) (Asset, error) {
	if !a.Info.IsNative() || l.tax == nil || a.Amount.IsZero() {
		return a, nil
	}
	tax, err := l.tax.ComputeTax(ctx, sdk.NewCoin(a.Info.Denom, a.Amount))
	if err != nil {
		return Asset{}, ErrLedger.Wrapf("compute tax: %s", err)
	}
	if tax.GT(a.Amount) {
		return Asset{}, ErrLedger.Wrapf("tax %s exceeds amount %s", tax, a.Amount)
	}
	return Asset{Info: a.Info, Amount: a.Amount.Sub(tax)}, nil
}

// PayTax moves the host transfer tax on a from payer to the tax collector and
// returns what payer may send on. Without a collector the tax stays with payer.
func (l Ledger) PayTax(ctx context.Context, payer sdk.AccAddress, a Asset) (Asset, error) {
	net, err := l.DeductTax(ctx, a)
	if err != nil {
		return Asset{}, err
	}
	tax := a.Amount.Sub(net.Amount)
	if tax.IsPositive() && !l.collector.Empty() {
		if err := l.Transfer(ctx, payer, l.collector, Asset{Info: a.Info, Amount: tax}); err != nil {
			return Asset{}, err
		}
	}
	return net, nil
}
