package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/router/types"
)

// InitGenesis initializes the router module's state from a provided genesis state.
// Pending provisionings are never exported since they resolve within one transaction.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid router genesis: %w", err)
	}
	if gs.Config != nil {
		if err := k.SetConfig(ctx, *gs.Config); err != nil {
			return err
		}
	}
	for _, b := range gs.Bridges {
		k.setWhitelisted(ctx, sdk.MustAccAddressFromBech32(b))
	}
	for _, p := range gs.Proxies {
		var remote [32]byte
		copy(remote[:], p.RemoteAddress)
		k.setProxy(ctx, p.Chain, remote, sdk.MustAccAddressFromBech32(p.Proxy))
	}
	k.setNextCorrelationID(ctx, gs.NextCorrelationID)
	return nil
}

// ExportGenesis returns the router module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	gs := types.DefaultGenesis()
	if cfg, err := k.GetConfig(ctx); err == nil {
		gs.Config = &cfg
	}
	for _, b := range k.GetBridges(ctx) {
		gs.Bridges = append(gs.Bridges, b.String())
	}
	gs.Proxies = append(gs.Proxies, k.GetAllProxies(ctx)...)
	gs.NextCorrelationID = k.peekCorrelationID(ctx)
	return gs
}
