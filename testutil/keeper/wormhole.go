package keeper

import (
	"crypto/ecdsa"
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	wormholekeeper "github.com/paw-chain/crosslend/x/wormhole/keeper"
	wormholetypes "github.com/paw-chain/crosslend/x/wormhole/types"
)

// RemoteChain is the network id of the remote chain used across fixtures.
const RemoteChain uint16 = 2

// Guardians holds deterministic guardian keys for signing test VAAs.
type Guardians struct {
	Keys []*ecdsa.PrivateKey
}

// NewGuardians derives n guardian keys from fixed seeds.
func NewGuardians(t testing.TB, n int) *Guardians {
	g := &Guardians{}
	for i := 0; i < n; i++ {
		seed := make([]byte, 32)
		seed[0] = 0x42
		seed[31] = byte(i + 1)
		key, err := crypto.ToECDSA(seed)
		require.NoError(t, err)
		g.Keys = append(g.Keys, key)
	}
	return g
}

// Addresses returns the Ethereum addresses of the guardians.
func (g *Guardians) Addresses() []common.Address {
	out := make([]common.Address, len(g.Keys))
	for i, k := range g.Keys {
		out[i] = crypto.PubkeyToAddress(k.PublicKey)
	}
	return out
}

// Set returns the guardian set of all keys at index.
func (g *Guardians) Set(index uint32) wormholetypes.GuardianSet {
	return wormholetypes.NewGuardianSet(index, g.Addresses()...)
}

// Signers returns the signers at the given indices, or all of them.
func (g *Guardians) Signers(indices ...int) []wormholetypes.Signer {
	if len(indices) == 0 {
		for i := range g.Keys {
			indices = append(indices, i)
		}
	}
	out := make([]wormholetypes.Signer, 0, len(indices))
	for _, i := range indices {
		out = append(out, wormholetypes.Signer{Index: uint8(i), Key: g.Keys[i]})
	}
	return out
}

// Sign serializes obs signed by the given guardian indices, or by all.
func (g *Guardians) Sign(t testing.TB, obs wormholetypes.Observation, indices ...int) []byte {
	if obs.Timestamp.IsZero() {
		obs.Timestamp = time.Unix(1_700_000_000, 0)
	}
	raw, err := wormholetypes.SignObservation(obs, g.Signers(indices...)...)
	require.NoError(t, err)
	return raw
}

// WormholeFixture is a configured local attestation network.
type WormholeFixture struct {
	Env          *Env
	Keeper       *wormholekeeper.Keeper
	Guardians    *Guardians
	Owner        sdk.AccAddress
	RemoteBridge [32]byte
}

// WormholeKeeper creates an attestation network with four guardians at set 0
// and a trusted token bridge on RemoteChain.
func WormholeKeeper(t testing.TB) *WormholeFixture {
	env := NewEnv(t, wormholetypes.StoreKey)
	return installWormhole(t, env)
}

func installWormhole(t testing.TB, env *Env) *WormholeFixture {
	f := &WormholeFixture{
		Env:       env,
		Keeper:    wormholekeeper.NewKeeper(env.StoreKey(wormholetypes.StoreKey), env.Ledger),
		Guardians: NewGuardians(t, 4),
		Owner:     sdk.AccAddress("wormhole_owner______"),
	}
	copy(f.RemoteBridge[:], "remote_token_bridge_____________")

	require.NoError(t, f.Keeper.SetConfig(env.Ctx, wormholetypes.Config{
		Owner:             f.Owner.String(),
		HostChain:         wormholetypes.DefaultHostChain,
		GuardianSetExpiry: wormholetypes.DefaultGuardianSetExpiry,
	}))
	_, err := f.Keeper.UpdateGuardianSet(env.Ctx, f.Owner, f.Guardians.Set(0).Keys)
	require.NoError(t, err)
	require.NoError(t, f.Keeper.RegisterForeignBridge(env.Ctx, f.Owner, RemoteChain, f.RemoteBridge))
	return f
}

// TransferVAA returns a signed transfer from the remote token bridge.
func (f *WormholeFixture) TransferVAA(t testing.TB, seq uint64, p wormholetypes.TransferPayload) []byte {
	bz, err := p.Encode()
	require.NoError(t, err)
	return f.Guardians.Sign(t, wormholetypes.Observation{
		EmitterChain:   RemoteChain,
		EmitterAddress: f.RemoteBridge,
		Sequence:       seq,
		Payload:        bz,
	})
}
