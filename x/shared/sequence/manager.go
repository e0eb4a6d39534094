// Package sequence provides per-emitter monotonic sequence counters and
// processed-message hash sets shared by the relay modules.
// Counters back outbound message sequencing; hash sets back replay protection.
package sequence

import (
	"encoding/binary"
	"encoding/hex"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	// SequencePrefix stores the next sequence per emitter
	SequencePrefix = []byte{0x01}
	// ProcessedPrefix stores processed message hashes
	ProcessedPrefix = []byte{0x02}
)

// ErrorProvider allows modules to provide their own error types while using shared sequence logic.
type ErrorProvider interface {
	// ReplayError returns an error for an already processed message
	ReplayError(msg string) error
}

// Manager tracks sequences and processed hashes under a namespace of a module store.
type Manager struct {
	storeKey      storetypes.StoreKey
	errorProvider ErrorProvider
	namespace     []byte
}

// NewManager creates a new sequence manager.
// namespace isolates several managers sharing one store key.
func NewManager(storeKey storetypes.StoreKey, errorProvider ErrorProvider, namespace []byte) *Manager {
	return &Manager{
		storeKey:      storeKey,
		errorProvider: errorProvider,
		namespace:     append([]byte{}, namespace...),
	}
}

func encodeSequence(n uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	return bz
}

func decodeSequence(bz []byte) uint64 {
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (m *Manager) key(prefix, id []byte) []byte {
	key := make([]byte, 0, len(m.namespace)+len(prefix)+len(id))
	key = append(key, m.namespace...)
	key = append(key, prefix...)
	return append(key, id...)
}

// Current returns the sequence the next message from emitter will carry.
func (m *Manager) Current(ctx sdk.Context, emitter []byte) uint64 {
	return decodeSequence(ctx.KVStore(m.storeKey).Get(m.key(SequencePrefix, emitter)))
}

// Next returns the current sequence for emitter and advances the counter.
// The first message of an emitter carries sequence 0.
func (m *Manager) Next(ctx sdk.Context, emitter []byte) uint64 {
	current := m.Current(ctx, emitter)
	ctx.KVStore(m.storeKey).Set(m.key(SequencePrefix, emitter), encodeSequence(current+1))
	return current
}

// SetCurrent overwrites the counter of an emitter. Used by genesis import.
func (m *Manager) SetCurrent(ctx sdk.Context, emitter []byte, seq uint64) {
	ctx.KVStore(m.storeKey).Set(m.key(SequencePrefix, emitter), encodeSequence(seq))
}

// IsProcessed reports whether hash was already marked.
func (m *Manager) IsProcessed(ctx sdk.Context, hash []byte) bool {
	return ctx.KVStore(m.storeKey).Has(m.key(ProcessedPrefix, hash))
}

// MarkProcessed records hash, failing with the provider's replay error if it
// was recorded before.
func (m *Manager) MarkProcessed(ctx sdk.Context, hash []byte) error {
	if len(hash) == 0 {
		return m.errorProvider.ReplayError("empty message hash")
	}
	if m.IsProcessed(ctx, hash) {
		return m.errorProvider.ReplayError("message " + hex.EncodeToString(hash) + " already processed")
	}
	ctx.KVStore(m.storeKey).Set(m.key(ProcessedPrefix, hash), []byte{1})
	return nil
}

// Counter is an emitter and its next sequence.
type Counter struct {
	Emitter []byte `json:"emitter"`
	Next    uint64 `json:"next"`
}

// Counters returns every emitter counter, ordered by emitter bytes.
func (m *Manager) Counters(ctx sdk.Context) []Counter {
	prefix := m.key(SequencePrefix, nil)
	iterator := storetypes.KVStorePrefixIterator(ctx.KVStore(m.storeKey), prefix)
	defer iterator.Close()

	var out []Counter
	for ; iterator.Valid(); iterator.Next() {
		out = append(out, Counter{
			Emitter: append([]byte{}, iterator.Key()[len(prefix):]...),
			Next:    decodeSequence(iterator.Value()),
		})
	}
	return out
}

// ProcessedHashes returns every processed hash, ordered by hash bytes.
func (m *Manager) ProcessedHashes(ctx sdk.Context) [][]byte {
	prefix := m.key(ProcessedPrefix, nil)
	iterator := storetypes.KVStorePrefixIterator(ctx.KVStore(m.storeKey), prefix)
	defer iterator.Close()

	var out [][]byte
	for ; iterator.Valid(); iterator.Next() {
		out = append(out, append([]byte{}, iterator.Key()[len(prefix):]...))
	}
	return out
}
