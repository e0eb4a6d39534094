package types

import "fmt"

// GenesisState is the proxy module genesis.
type GenesisState struct {
	Instances []Instance `json:"instances"`
}

// DefaultGenesis returns the default genesis state for the proxy module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Instances: []Instance{}}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Instances))
	for _, inst := range gs.Instances {
		if err := inst.Validate(); err != nil {
			return err
		}
		if _, dup := seen[inst.Address]; dup {
			return fmt.Errorf("duplicate proxy %s", inst.Address)
		}
		seen[inst.Address] = struct{}{}
	}
	return nil
}
