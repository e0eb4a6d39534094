package types

import (
	"errors"

	sdkerrors "cosmossdk.io/errors"
	sdkerrortypes "github.com/cosmos/cosmos-sdk/types/errors"

	proxytypes "github.com/paw-chain/crosslend/x/proxy/types"
	routertypes "github.com/paw-chain/crosslend/x/router/types"
	"github.com/paw-chain/crosslend/x/shared/asset"
	"github.com/paw-chain/crosslend/x/shared/forward"
	wormholetypes "github.com/paw-chain/crosslend/x/wormhole/types"
)

// Gateway module sentinel errors
var (
	ErrInvalidInstruction      = sdkerrors.Register(ModuleName, 2, "invalid instruction")
	ErrAttestationInvalid      = sdkerrors.Register(ModuleName, 3, "attestation verification failed")
	ErrUnknownEmitter          = sdkerrors.Register(ModuleName, 4, "unknown emitter")
	ErrReplayDetected          = sdkerrors.Register(ModuleName, 5, "instruction already completed")
	ErrCorrelation             = sdkerrors.Register(ModuleName, 6, "instruction and transfer do not correlate")
	ErrPendingTransferNotFound = sdkerrors.Register(ModuleName, 7, "pending outgoing transfer not found")
	ErrInvalidTransfer         = sdkerrors.Register(ModuleName, 8, "invalid incoming transfer")
	ErrUpstream                = sdkerrors.Register(ModuleName, 9, "collaborator call failed")
	ErrConfigNotFound          = sdkerrors.Register(ModuleName, 10, "gateway config not set")
	ErrInvalidConfig           = sdkerrors.Register(ModuleName, 11, "invalid gateway config")
	ErrInvalidGenesis          = sdkerrors.Register(ModuleName, 12, "invalid genesis state")
)

// replayErrors maps completed-instruction replays to ErrReplayDetected.
type replayErrors struct{}

func (replayErrors) ReplayError(msg string) error {
	return ErrReplayDetected.Wrap(msg)
}

// CompletedErrors is the error provider of the completed-instruction set.
var CompletedErrors = replayErrors{}

// Error classes reported in metrics and rejection events.
const (
	ClassAuthorization = "authorization"
	ClassValidation    = "validation"
	ClassReplay        = "replay"
	ClassCorrelation   = "correlation"
	ClassNotFound      = "not_found"
	ClassUpstream      = "upstream"
	ClassInternal      = "internal"
)

var errorClasses = []struct {
	class string
	errs  []error
}{
	{ClassAuthorization, []error{sdkerrortypes.ErrUnauthorized, routertypes.ErrNotWhitelisted}},
	{ClassReplay, []error{ErrReplayDetected, wormholetypes.ErrVAAAlreadyExecuted}},
	{ClassCorrelation, []error{ErrCorrelation}},
	{ClassNotFound, []error{
		ErrUnknownEmitter, ErrPendingTransferNotFound, routertypes.ErrProxyNotFound,
		proxytypes.ErrProxyNotFound, forward.ErrSnapshotNotFound, ErrConfigNotFound,
	}},
	{ClassValidation, []error{
		ErrInvalidInstruction, ErrInvalidTransfer, ErrAttestationInvalid, asset.ErrInvalidAsset,
		routertypes.ErrInvalidAsset, proxytypes.ErrInvalidAsset, wormholetypes.ErrInvalidTransfer,
	}},
	{ClassUpstream, []error{ErrUpstream, routertypes.ErrUpstream, proxytypes.ErrUpstream, asset.ErrLedger}},
}

// ErrorClass returns the taxonomy label of err.
func ErrorClass(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range errorClasses {
		for _, target := range c.errs {
			if errors.Is(err, target) {
				return c.class
			}
		}
	}
	return ClassInternal
}
