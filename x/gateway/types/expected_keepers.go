package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// CoreBridge verifies attestations and publishes messages.
type CoreBridge interface {
	sharedkeeper.AttestationVerifierV1

	PostMessage(ctx context.Context, emitter sdk.AccAddress, payload []byte, nonce uint32) (uint64, error)
	NextSequence(ctx context.Context, emitter [32]byte) uint64
}

// TokenBridge moves assets across the attestation network.
type TokenBridge interface {
	Address() sdk.AccAddress
	SubmitTransfer(ctx context.Context, submitter sdk.AccAddress, raw []byte) error
	DepositTokens(ctx context.Context, depositor sdk.AccAddress, coin sdk.Coin) error
	InitiateTransfer(
		ctx context.Context,
		sender sdk.AccAddress,
		a asset.Asset,
		recipientChain uint16,
		recipient [32]byte,
		fee math.Int,
		nonce uint32,
	) (uint64, error)
}

// Router runs operations on behalf of remote users.
type Router interface {
	ModuleAddress() sdk.AccAddress
	InitializeProxy(ctx context.Context, caller sdk.AccAddress, chain uint16, remote [32]byte) error

	DepositStable(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, funds asset.Asset) error
	RedeemStable(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, funds asset.Asset) error
	RepayStable(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, funds asset.Asset) error
	LockCollateral(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, collateral asset.Asset) error
	UnlockCollateral(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, token string, amount math.Int) error
	BorrowStable(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin, amount math.Int) error
	ClaimRewards(ctx context.Context, caller sdk.AccAddress, origin sharedkeeper.Origin) error
}
