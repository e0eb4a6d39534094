package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/gateway/types"
)

// InitGenesis initializes the gateway module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid gateway genesis: %w", err)
	}
	if gs.Config != nil {
		if err := k.SetConfig(ctx, *gs.Config); err != nil {
			return err
		}
	}
	for _, r := range gs.RemoteGateways {
		k.setRemoteGateway(ctx, r.Chain, r.Address)
	}
	for _, e := range gs.SequenceRecords {
		if err := k.setSequenceRecord(ctx, e.Chain, e.Sequence, e.Record); err != nil {
			return err
		}
	}
	for _, p := range gs.PendingTransfers {
		k.setPendingTransfer(ctx, p)
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	for _, h := range gs.CompletedInstructions {
		if err := k.completed.MarkProcessed(sdkCtx, h); err != nil {
			return fmt.Errorf("import completed instruction: %w", err)
		}
	}
	return nil
}

// ExportGenesis returns the gateway module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	gs := types.DefaultGenesis()
	if cfg, err := k.GetConfig(ctx); err == nil {
		gs.Config = &cfg
	}
	gs.RemoteGateways = append(gs.RemoteGateways, k.GetAllRemoteGateways(ctx)...)
	gs.SequenceRecords = append(gs.SequenceRecords, k.GetAllSequenceRecords(ctx)...)
	gs.PendingTransfers = append(gs.PendingTransfers, k.GetAllPendingTransfers(ctx)...)
	gs.CompletedInstructions = append(gs.CompletedInstructions, k.completed.ProcessedHashes(sdk.UnwrapSDKContext(ctx))...)
	return gs
}
