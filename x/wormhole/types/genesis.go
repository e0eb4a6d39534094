package types

import (
	"github.com/paw-chain/crosslend/x/shared/sequence"
)

// GenesisState is the wormhole module genesis.
type GenesisState struct {
	Config             *Config              `json:"config,omitempty"`
	GuardianSets       []GuardianSet        `json:"guardian_sets"`
	CurrentGuardianSet uint32               `json:"current_guardian_set"`
	ForeignBridges     []ForeignBridge      `json:"foreign_bridges"`
	Sequences          []sequence.Counter   `json:"sequences"`
	ExecutedTransfers  [][]byte             `json:"executed_transfers"`
	Messages           []MessagePublication `json:"messages"`
}

// DefaultGenesis returns an empty genesis; config and guardians come from the operator.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		GuardianSets:      []GuardianSet{},
		ForeignBridges:    []ForeignBridge{},
		Sequences:         []sequence.Counter{},
		ExecutedTransfers: [][]byte{},
		Messages:          []MessagePublication{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if gs.Config != nil {
		if err := gs.Config.Validate(); err != nil {
			return err
		}
	}
	sets := make(map[uint32]struct{}, len(gs.GuardianSets))
	for _, set := range gs.GuardianSets {
		if err := set.Validate(); err != nil {
			return err
		}
		if _, dup := sets[set.Index]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate guardian set %d", set.Index)
		}
		sets[set.Index] = struct{}{}
	}
	if len(gs.GuardianSets) > 0 {
		if _, ok := sets[gs.CurrentGuardianSet]; !ok {
			return ErrInvalidGenesis.Wrapf("current guardian set %d not present", gs.CurrentGuardianSet)
		}
	}
	chains := make(map[uint16]struct{}, len(gs.ForeignBridges))
	for _, fb := range gs.ForeignBridges {
		if fb.Chain == 0 {
			return ErrInvalidGenesis.Wrap("foreign bridge chain must be non-zero")
		}
		if _, dup := chains[fb.Chain]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate foreign bridge for chain %d", fb.Chain)
		}
		chains[fb.Chain] = struct{}{}
	}
	for _, h := range gs.ExecutedTransfers {
		if len(h) == 0 {
			return ErrInvalidGenesis.Wrap("empty executed transfer hash")
		}
	}
	return nil
}
