// Package keeper provides shared keeper interfaces for cross-module communication.
// Versioned interfaces allow stable API contracts between modules.
package keeper

import (
	"context"
	"encoding/hex"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/shared/asset"
)

// =============================================================================
// Shared Types
// =============================================================================

// Origin identifies the remote instruction an operation serves.
// Assets owed back to the remote user are relayed using this origin.
type Origin struct {
	Chain    uint16   `json:"chain"`
	Sender   [32]byte `json:"sender"`
	Sequence uint64   `json:"sequence"`
}

func (o Origin) String() string {
	return fmt.Sprintf("%d/%s#%d", o.Chain, hex.EncodeToString(o.Sender[:]), o.Sequence)
}

// Attestation is a verified cross-chain message.
type Attestation struct {
	EmitterChain   uint16
	EmitterAddress [32]byte
	Sequence       uint64
	Timestamp      uint32
	Payload        []byte
	Hash           []byte
}

// =============================================================================
// Attestation Interfaces (Versioned)
// =============================================================================

// AttestationVerifierV1 verifies raw signed messages from the attestation network.
// Version 1.0 - Initial release
type AttestationVerifierV1 interface {
	// VerifyAttestation parses and verifies raw against the current guardian set.
	VerifyAttestation(ctx context.Context, raw []byte) (Attestation, error)
}

// =============================================================================
// Money Market Interfaces (Versioned)
// =============================================================================

// MoneyMarketV1 is the facade of the host lending protocol.
// Version 1.0 - Initial release
type MoneyMarketV1 interface {
	DepositStable(ctx context.Context, depositor sdk.AccAddress, amount sdk.Coin) error
	RedeemStable(ctx context.Context, redeemer sdk.AccAddress, amount sdkmath.Int) error
	RepayStable(ctx context.Context, borrower sdk.AccAddress, amount sdk.Coin) error
	BorrowStable(ctx context.Context, borrower sdk.AccAddress, amount sdkmath.Int) error
	ClaimRewards(ctx context.Context, claimer sdk.AccAddress) error

	// CustodyForToken returns the custody account holding collateral of token.
	CustodyForToken(ctx context.Context, token string) (sdk.AccAddress, error)
	DepositCollateral(ctx context.Context, custody, depositor sdk.AccAddress, token string, amount sdkmath.Int) error
	LockCollateral(ctx context.Context, borrower sdk.AccAddress, token string, amount sdkmath.Int) error
	UnlockCollateral(ctx context.Context, borrower sdk.AccAddress, token string, amount sdkmath.Int) error
	WithdrawCollateral(ctx context.Context, custody, borrower sdk.AccAddress, token string, amount sdkmath.Int) error
}

// MoneyMarketGovV1 extends V1 with governance passthrough.
type MoneyMarketGovV1 interface {
	MoneyMarketV1

	StakeVotingTokens(ctx context.Context, staker sdk.AccAddress, amount sdkmath.Int) error
	WithdrawVotingTokens(ctx context.Context, staker sdk.AccAddress, amount sdkmath.Int) error
	CastVote(ctx context.Context, voter sdk.AccAddress, pollID uint64, vote string, amount sdkmath.Int) error
}

// =============================================================================
// Relay Interfaces (Versioned)
// =============================================================================

// AssetRelayV1 sends assets owed to a remote user back to their chain.
// Version 1.0 - Initial release
type AssetRelayV1 interface {
	// SendAsset relays a, already held by the relay, for the instruction origin.
	SendAsset(ctx context.Context, caller sdk.AccAddress, origin Origin, a asset.Asset) error
}

// =============================================================================
// Version Constants
// =============================================================================

const (
	// AttestationVerifierVersion is the current attestation verifier interface version.
	AttestationVerifierVersion = "v1.0.0"

	// MoneyMarketVersion is the current money market interface version.
	MoneyMarketVersion = "v1.0.0"

	// AssetRelayVersion is the current asset relay interface version.
	AssetRelayVersion = "v1.0.0"
)

// =============================================================================
// Interface Compatibility Notes
// =============================================================================

/*
API Versioning Guidelines:

1. MINOR VERSION BUMP (v1.0 -> v1.1):
   - Add new methods to Extended interfaces
   - Never remove or change existing method signatures

2. MAJOR VERSION BUMP (v1 -> v2):
   - Create new interface (e.g., MoneyMarketV2)
   - Old interfaces remain for backwards compatibility

3. EMBEDDING:
   - V2 can embed V1 to inherit methods
   - Example: type MoneyMarketV2 interface { MoneyMarketV1; NewMethod() }

4. ADAPTER PATTERN:
   - If keeper doesn't match interface exactly, create an adapter
   - Adapters live in the module using the interface
*/
