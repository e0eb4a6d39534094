package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdkstd "github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/crosslend/x/shared/asset"
)

// FaucetModule is the minter module account used to fund test accounts.
const FaucetModule = "faucet"

// TaxCollectorModule receives the host transfer tax.
const TaxCollectorModule = "tax_collector"

// Env is an in-memory chain with real auth and bank keepers, mock token and
// tax keepers, and any number of extra module stores.
type Env struct {
	Ctx    sdk.Context
	Bank   bankkeeper.BaseKeeper
	Tokens *MockTokens
	Tax    *MockTax
	Ledger asset.Ledger

	// TaxCollector accumulates every tax paid through Ledger.
	TaxCollector sdk.AccAddress

	keys map[string]*storetypes.KVStoreKey
}

// NewEnv mounts auth, bank and the named module stores on a MemDB multistore.
func NewEnv(t testing.TB, storeKeys ...string) *Env {
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)

	tokenStoreKey := storetypes.NewKVStoreKey(TokenStoreKey)
	stateStore.MountStoreWithDB(tokenStoreKey, storetypes.StoreTypeIAVL, db)

	keys := make(map[string]*storetypes.KVStoreKey, len(storeKeys))
	for _, name := range storeKeys {
		key := storetypes.NewKVStoreKey(name)
		stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
		keys[name] = key
	}
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	sdkstd.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		FaucetModule: {authtypes.Minter},
	}
	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)
	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1, Time: time.Unix(1_700_000_000, 0).UTC()}, false, log.NewNopLogger())
	require.NoError(t, bankKeeper.SetParams(ctx, banktypes.DefaultParams()))

	tokens := NewMockTokens(tokenStoreKey)
	tax := &MockTax{Rate: math.LegacyZeroDec()}

	collector := authtypes.NewModuleAddress(TaxCollectorModule)

	return &Env{
		Ctx:          ctx,
		Bank:         bankKeeper,
		Tokens:       tokens,
		Tax:          tax,
		Ledger:       asset.NewLedger(bankKeeper, tokens, tax).WithTaxCollector(collector),
		TaxCollector: collector,
		keys:         keys,
	}
}

// StoreKey returns a store mounted by NewEnv.
func (e *Env) StoreKey(name string) storetypes.StoreKey {
	key, ok := e.keys[name]
	if !ok {
		panic("store not mounted: " + name)
	}
	return key
}

// FundNative mints coins to addr.
func (e *Env) FundNative(t testing.TB, addr sdk.AccAddress, coins sdk.Coins) {
	require.NoError(t, e.Bank.MintCoins(e.Ctx, FaucetModule, coins))
	require.NoError(t, e.Bank.SendCoinsFromModuleToAccount(e.Ctx, FaucetModule, addr, coins))
}

// FundToken mints token contract balance to addr.
func (e *Env) FundToken(t testing.TB, contract string, addr sdk.AccAddress, amount math.Int) {
	require.NoError(t, e.Tokens.Mint(e.Ctx, contract, addr, amount))
}

// Balance returns holder's balance of info, failing the test on error.
func (e *Env) Balance(t testing.TB, holder sdk.AccAddress, info asset.Info) math.Int {
	bal, err := e.Ledger.Balance(e.Ctx, holder, info)
	require.NoError(t, err)
	return bal
}
