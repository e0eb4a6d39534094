package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/crosslend/x/proxy/types"
)

// InitGenesis initializes the proxy module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid proxy genesis: %w", err)
	}
	for _, inst := range gs.Instances {
		if err := k.SetInstance(ctx, inst); err != nil {
			return err
		}
	}
	return nil
}

// ExportGenesis returns the proxy module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	instances := k.GetAllInstances(ctx)
	if instances == nil {
		instances = []types.Instance{}
	}
	return &types.GenesisState{Instances: instances}
}
