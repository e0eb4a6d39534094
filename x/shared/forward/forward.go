// Package forward relays the output of calls whose result amount is not known
// up front. A holder snapshots its balance of an asset, triggers the calls,
// then forwards exactly the balance increase to a target.
package forward

import (
	"encoding/json"
	"fmt"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/shared/asset"
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// ModuleName is the error codespace for forwarding errors.
const ModuleName = "forward"

var (
	ErrSnapshotNotFound = sdkerrors.Register(ModuleName, 2, "balance snapshot not found")
	ErrSnapshotPending  = sdkerrors.Register(ModuleName, 3, "balance snapshot already pending")
	ErrNegativeDelta    = sdkerrors.Register(ModuleName, 4, "balance decreased since snapshot")
)

// Call is a pending forwarding cycle returned by Snapshot.
type Call struct {
	Holder sdk.AccAddress
	Asset  asset.Info
	To     sdk.AccAddress
}

type snapshot struct {
	Balance math.Int `json:"balance"`
	To      string   `json:"to"`
}

// Keeper stores balance snapshots under a prefix of the owning module's store.
type Keeper struct {
	storeKey storetypes.StoreKey
	prefix   []byte
	ledger   asset.Ledger
}

// NewKeeper returns a forwarding keeper writing under prefix in storeKey.
func NewKeeper(storeKey storetypes.StoreKey, prefix []byte, ledger asset.Ledger) Keeper {
	return Keeper{
		storeKey: storeKey,
		prefix:   append([]byte{}, prefix...),
		ledger:   ledger,
	}
}

func (k Keeper) key(holder sdk.AccAddress, info asset.Info) []byte {
	key := append([]byte{}, k.prefix...)
	key = append(key, byte(len(holder)))
	key = append(key, holder...)
	return append(key, []byte(info.Key())...)
}

// Snapshot records holder's current balance of info. The returned Call must be
// passed to Forward by the holder once the triggering operations completed.
func (k Keeper) Snapshot(ctx sdk.Context, holder sdk.AccAddress, info asset.Info, to sdk.AccAddress) (Call, error) {
	if err := info.Validate(); err != nil {
		return Call{}, err
	}
	store := ctx.KVStore(k.storeKey)
	key := k.key(holder, info)
	if store.Has(key) {
		return Call{}, ErrSnapshotPending.Wrapf("%s for %s", info, holder)
	}

	balance, err := k.ledger.Balance(ctx, holder, info)
	if err != nil {
		return Call{}, err
	}
	bz, err := json.Marshal(snapshot{Balance: balance, To: to.String()})
	if err != nil {
		return Call{}, fmt.Errorf("marshal snapshot: %w", err)
	}
	store.Set(key, bz)

	return Call{Holder: holder, Asset: info, To: to}, nil
}

// Forward transfers the balance gained since the snapshot to the recorded target
// and returns the forwarded asset. Only the holder itself may run it.
// Funds that reached the holder between the two phases for unrelated reasons
// are forwarded as well.
func (k Keeper) Forward(ctx sdk.Context, caller sdk.AccAddress, call Call) (asset.Asset, error) {
	if err := sharedkeeper.RequireCapability(caller, sharedkeeper.Grant(sharedkeeper.RoleSelf, call.Holder)); err != nil {
		return asset.Asset{}, err
	}

	store := ctx.KVStore(k.storeKey)
	key := k.key(call.Holder, call.Asset)
	bz := store.Get(key)
	if bz == nil {
		return asset.Asset{}, ErrSnapshotNotFound.Wrapf("%s for %s", call.Asset, call.Holder)
	}
	var snap snapshot
	if err := json.Unmarshal(bz, &snap); err != nil {
		return asset.Asset{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	store.Delete(key)
	to, err := sdk.AccAddressFromBech32(snap.To)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("snapshot target: %w", err)
	}

	now, err := k.ledger.Balance(ctx, call.Holder, call.Asset)
	if err != nil {
		return asset.Asset{}, err
	}
	if now.LT(snap.Balance) {
		return asset.Asset{}, ErrNegativeDelta.Wrapf("%s: %s < %s", call.Asset, now, snap.Balance)
	}

	delta := asset.Asset{Info: call.Asset, Amount: now.Sub(snap.Balance)}
	if err := k.ledger.Transfer(ctx, call.Holder, to, delta); err != nil {
		return asset.Asset{}, err
	}
	return delta, nil
}

// Pending reports whether holder has an unforwarded snapshot of info.
func (k Keeper) Pending(ctx sdk.Context, holder sdk.AccAddress, info asset.Info) bool {
	return ctx.KVStore(k.storeKey).Has(k.key(holder, info))
}
