package keeper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersionConstants verifies version constants are defined.
func TestVersionConstants(t *testing.T) {
	require.Equal(t, "v1.0.0", AttestationVerifierVersion)
	require.Equal(t, "v1.0.0", MoneyMarketVersion)
	require.Equal(t, "v1.0.0", AssetRelayVersion)
}

// TestOriginString tests the Origin log representation.
func TestOriginString(t *testing.T) {
	var sender [32]byte
	sender[31] = 0x01
	o := Origin{Chain: 2, Sender: sender, Sequence: 9}

	require.Equal(t, "2/0000000000000000000000000000000000000000000000000000000000000001#9", o.String())
}
