package types

import (
	"fmt"
)

// GenesisState is the gateway module genesis.
type GenesisState struct {
	Config                *Config                `json:"config,omitempty"`
	RemoteGateways        []ChainRegistration    `json:"remote_gateways"`
	SequenceRecords       []SequenceRecordEntry  `json:"sequence_records"`
	PendingTransfers      []OutgoingTransferInfo `json:"pending_transfers"`
	CompletedInstructions [][]byte               `json:"completed_instructions"`
}

// DefaultGenesis returns the default genesis state for the gateway module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		RemoteGateways:        []ChainRegistration{},
		SequenceRecords:       []SequenceRecordEntry{},
		PendingTransfers:      []OutgoingTransferInfo{},
		CompletedInstructions: [][]byte{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if gs.Config != nil {
		if err := gs.Config.Validate(); err != nil {
			return err
		}
	}
	chains := make(map[uint16]struct{}, len(gs.RemoteGateways))
	for _, r := range gs.RemoteGateways {
		if r.Chain == 0 {
			return ErrInvalidGenesis.Wrap("remote gateway chain must be non-zero")
		}
		if _, dup := chains[r.Chain]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate remote gateway for chain %d", r.Chain)
		}
		chains[r.Chain] = struct{}{}
	}
	records := make(map[string]SequenceRecord, len(gs.SequenceRecords))
	for _, e := range gs.SequenceRecords {
		key := fmt.Sprintf("%d/%d", e.Chain, e.Sequence)
		if _, dup := records[key]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate sequence record %s", key)
		}
		if e.Record.OutgoingSequence != nil && !e.Record.OutgoingExpected {
			return ErrInvalidGenesis.Wrapf("sequence record %s has an unexpected outgoing sequence", key)
		}
		records[key] = e.Record
	}
	for _, p := range gs.PendingTransfers {
		key := fmt.Sprintf("%d/%d", p.ChainID, p.InstructionSequence)
		rec, ok := records[key]
		if !ok || !rec.OutgoingExpected {
			return ErrInvalidGenesis.Wrapf("pending transfer %s has no sequence record expecting it", key)
		}
	}
	for _, h := range gs.CompletedInstructions {
		if len(h) == 0 {
			return ErrInvalidGenesis.Wrap("empty completed instruction hash")
		}
	}
	return nil
}
