package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	proxytypes "github.com/paw-chain/crosslend/x/proxy/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// MoneyMarket is the lending protocol facade used for direct deposits.
type MoneyMarket = sharedkeeper.MoneyMarketV1

// AssetRelay sends owed assets back to the remote user.
type AssetRelay = sharedkeeper.AssetRelayV1

// ProxyKeeper defines the expected proxy keeper.
type ProxyKeeper interface {
	Instantiate(ctx context.Context, caller sdk.AccAddress, req proxytypes.InstantiateRequest) (proxytypes.InstantiateReply, error)
	Migrate(ctx context.Context, caller, proxy sdk.AccAddress, codeID uint64) error

	RepayStable(ctx context.Context, caller, proxy sdk.AccAddress, funds sdk.Coin) error
	LockCollateral(ctx context.Context, caller, proxy sdk.AccAddress, collateral asset.Asset) error
	UnlockCollateral(ctx context.Context, caller, proxy sdk.AccAddress, token string, amount math.Int, to sdk.AccAddress) (asset.Asset, error)
	BorrowStable(ctx context.Context, caller, proxy sdk.AccAddress, amount math.Int, to sdk.AccAddress) (asset.Asset, error)
	ClaimRewards(ctx context.Context, caller, proxy sdk.AccAddress, to sdk.AccAddress) (asset.Asset, error)

	StakeVotingTokens(ctx context.Context, caller, proxy sdk.AccAddress, amount math.Int) error
	WithdrawVotingTokens(ctx context.Context, caller, proxy sdk.AccAddress, amount math.Int) error
	CastVote(ctx context.Context, caller, proxy sdk.AccAddress, pollID uint64, vote string, amount math.Int) error
}
