package sequence_test

import (
	"testing"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/crosslend/x/shared/sequence"
)

// MockErrorProvider implements ErrorProvider for testing.
type MockErrorProvider struct{}

func (m *MockErrorProvider) ReplayError(msg string) error {
	return &testError{msg: "replay: " + msg}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func setupManagers(t *testing.T) (*sequence.Manager, *sequence.Manager, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey("test")
	ctx := testutil.DefaultContext(storeKey, storetypes.NewTransientStoreKey("transient_test"))

	a := sequence.NewManager(storeKey, &MockErrorProvider{}, []byte{0x10})
	b := sequence.NewManager(storeKey, &MockErrorProvider{}, []byte{0x20})
	return a, b, ctx
}

func TestNextIsMonotonicPerEmitter(t *testing.T) {
	m, _, ctx := setupManagers(t)
	emitter1 := []byte("emitter-one")
	emitter2 := []byte("emitter-two")

	require.Equal(t, uint64(0), m.Current(ctx, emitter1))
	require.Equal(t, uint64(0), m.Next(ctx, emitter1))
	require.Equal(t, uint64(1), m.Next(ctx, emitter1))
	require.Equal(t, uint64(2), m.Current(ctx, emitter1))

	// Independent counter per emitter
	require.Equal(t, uint64(0), m.Next(ctx, emitter2))
	require.Equal(t, uint64(2), m.Current(ctx, emitter1))
}

func TestMarkProcessed(t *testing.T) {
	m, _, ctx := setupManagers(t)
	hash := []byte{0xaa, 0xbb}

	require.False(t, m.IsProcessed(ctx, hash))
	require.NoError(t, m.MarkProcessed(ctx, hash))
	require.True(t, m.IsProcessed(ctx, hash))

	err := m.MarkProcessed(ctx, hash)
	require.Error(t, err)
	require.Contains(t, err.Error(), "replay")

	require.Error(t, m.MarkProcessed(ctx, nil))
}

func TestNamespacesAreIsolated(t *testing.T) {
	a, b, ctx := setupManagers(t)
	emitter := []byte("shared")

	a.Next(ctx, emitter)
	a.Next(ctx, emitter)
	require.Equal(t, uint64(0), b.Current(ctx, emitter))

	require.NoError(t, a.MarkProcessed(ctx, []byte{1}))
	require.False(t, b.IsProcessed(ctx, []byte{1}))
}

func TestExportCounters(t *testing.T) {
	m, other, ctx := setupManagers(t)

	m.SetCurrent(ctx, []byte{0x02}, 7)
	m.SetCurrent(ctx, []byte{0x01}, 3)
	other.SetCurrent(ctx, []byte{0x01}, 99)
	require.NoError(t, m.MarkProcessed(ctx, []byte{0x09}))
	require.NoError(t, m.MarkProcessed(ctx, []byte{0x05}))

	require.Equal(t, []sequence.Counter{
		{Emitter: []byte{0x01}, Next: 3},
		{Emitter: []byte{0x02}, Next: 7},
	}, m.Counters(ctx))
	require.Equal(t, [][]byte{{0x05}, {0x09}}, m.ProcessedHashes(ctx))
}
