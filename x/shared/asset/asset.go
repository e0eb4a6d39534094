// Package asset models the two kinds of host-chain assets handled by the relay:
// native bank denoms and token contracts. It also provides a Ledger that reads
// and moves either kind through a single API.
package asset

import (
	"fmt"
	"strings"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ModuleName is the error codespace for asset errors.
const ModuleName = "asset"

var (
	ErrInvalidAsset = sdkerrors.Register(ModuleName, 2, "invalid asset")
	ErrLedger       = sdkerrors.Register(ModuleName, 3, "ledger operation failed")
)

// Info identifies an asset. Exactly one of Denom or Contract is set.
type Info struct {
	Denom    string `json:"denom,omitempty"`
	Contract string `json:"contract,omitempty"`
}

// NativeInfo returns the Info of a bank denom.
func NativeInfo(denom string) Info {
	return Info{Denom: denom}
}

// TokenInfo returns the Info of a token contract.
func TokenInfo(contract string) Info {
	return Info{Contract: contract}
}

// IsNative reports whether the asset is a bank denom.
func (i Info) IsNative() bool {
	return i.Denom != ""
}

// Validate checks that exactly one identifier is set and that it is well formed.
func (i Info) Validate() error {
	switch {
	case i.Denom != "" && i.Contract != "":
		return ErrInvalidAsset.Wrap("both denom and contract set")
	case i.Denom != "":
		if err := sdk.ValidateDenom(i.Denom); err != nil {
			return ErrInvalidAsset.Wrapf("denom %q: %s", i.Denom, err)
		}
		return nil
	case i.Contract != "":
		if _, err := sdk.AccAddressFromBech32(i.Contract); err != nil {
			return ErrInvalidAsset.Wrapf("contract %q: %s", i.Contract, err)
		}
		return nil
	default:
		return ErrInvalidAsset.Wrap("empty asset info")
	}
}

// Key returns a stable string used for store keys and metric labels.
func (i Info) Key() string {
	if i.IsNative() {
		return "native:" + i.Denom
	}
	return "token:" + i.Contract
}

func (i Info) String() string {
	if i.IsNative() {
		return i.Denom
	}
	return i.Contract
}

// ParseInfo is the inverse of Info.Key.
func ParseInfo(key string) (Info, error) {
	kind, id, ok := strings.Cut(key, ":")
	if !ok || id == "" {
		return Info{}, ErrInvalidAsset.Wrapf("malformed asset key %q", key)
	}
	switch kind {
	case "native":
		return NativeInfo(id), nil
	case "token":
		return TokenInfo(id), nil
	default:
		return Info{}, ErrInvalidAsset.Wrapf("unknown asset kind %q", kind)
	}
}

// Asset is an amount of a specific asset.
type Asset struct {
	Info   Info     `json:"info"`
	Amount math.Int `json:"amount"`
}

// NewNative returns a native asset.
func NewNative(denom string, amount math.Int) Asset {
	return Asset{Info: NativeInfo(denom), Amount: amount}
}

// NewToken returns a token asset.
func NewToken(contract string, amount math.Int) Asset {
	return Asset{Info: TokenInfo(contract), Amount: amount}
}

// FromCoin converts a bank coin into an Asset.
func FromCoin(c sdk.Coin) Asset {
	return NewNative(c.Denom, c.Amount)
}

// Coin returns the asset as a bank coin. Token assets cannot be converted.
func (a Asset) Coin() (sdk.Coin, error) {
	if !a.Info.IsNative() {
		return sdk.Coin{}, ErrInvalidAsset.Wrapf("%s is not a native asset", a.Info.Contract)
	}
	return sdk.NewCoin(a.Info.Denom, a.Amount), nil
}

func (a Asset) String() string {
	return fmt.Sprintf("%s%s", a.Amount, a.Info)
}

// Validate checks the info and that the amount is not negative.
func (a Asset) Validate() error {
	if err := a.Info.Validate(); err != nil {
		return err
	}
	if a.Amount.IsNil() || a.Amount.IsNegative() {
		return ErrInvalidAsset.Wrapf("amount must be non-negative, got %s", a.Amount)
	}
	return nil
}
