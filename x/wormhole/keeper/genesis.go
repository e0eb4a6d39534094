package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/wormhole/types"
)

// InitGenesis initializes the wormhole module's state from a genesis state.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if gs.Config != nil {
		if err := k.SetConfig(ctx, *gs.Config); err != nil {
			return err
		}
	}
	for _, set := range gs.GuardianSets {
		if err := k.SetGuardianSet(ctx, set); err != nil {
			return err
		}
	}
	k.setCurrentGuardianSetIndex(ctx, gs.CurrentGuardianSet)
	for _, fb := range gs.ForeignBridges {
		k.setForeignBridge(ctx, fb)
	}
	for _, c := range gs.Sequences {
		k.sequences.SetCurrent(sdkCtx, c.Emitter, c.Next)
	}
	for _, h := range gs.ExecutedTransfers {
		if err := k.executed.MarkProcessed(sdkCtx, h); err != nil {
			return types.ErrInvalidGenesis.Wrap(err.Error())
		}
	}
	for _, msg := range gs.Messages {
		if err := k.setMessage(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// ExportGenesis returns the wormhole module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	gs := types.DefaultGenesis()
	if cfg, err := k.GetConfig(ctx); err == nil {
		gs.Config = &cfg
	}
	gs.GuardianSets = append(gs.GuardianSets, k.GetAllGuardianSets(ctx)...)
	gs.CurrentGuardianSet = k.GetCurrentGuardianSetIndex(ctx)
	gs.ForeignBridges = append(gs.ForeignBridges, k.GetAllForeignBridges(ctx)...)
	gs.Sequences = append(gs.Sequences, k.sequences.Counters(sdkCtx)...)
	gs.ExecutedTransfers = append(gs.ExecutedTransfers, k.executed.ProcessedHashes(sdkCtx)...)
	gs.Messages = append(gs.Messages, k.GetAllMessages(ctx)...)
	return gs
}
