package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/crosslend/x/shared/asset"
)

// MarketConfig names the money market assets a proxy works with.
type MarketConfig struct {
	StableDenom    string `json:"stable_denom"`
	ATokenContract string `json:"atoken_contract"`
	RewardToken    string `json:"reward_token"`
}

// Validate checks every configured asset.
func (c MarketConfig) Validate() error {
	if err := asset.NativeInfo(c.StableDenom).Validate(); err != nil {
		return ErrInvalidMarketConfig.Wrapf("stable denom: %s", err)
	}
	if err := asset.TokenInfo(c.ATokenContract).Validate(); err != nil {
		return ErrInvalidMarketConfig.Wrapf("atoken: %s", err)
	}
	if err := asset.TokenInfo(c.RewardToken).Validate(); err != nil {
		return ErrInvalidMarketConfig.Wrapf("reward token: %s", err)
	}
	return nil
}

// Instance is a provisioned proxy for one remote user.
type Instance struct {
	Address       string       `json:"address"`
	Admin         string       `json:"admin"`
	CodeID        uint64       `json:"code_id"`
	Chain         uint16       `json:"chain"`
	RemoteAddress []byte       `json:"remote_address"`
	Market        MarketConfig `json:"market"`
	CreatedHeight int64        `json:"created_height"`
	MigratedAt    int64        `json:"migrated_at,omitempty"`
}

// Remote returns the remote address as a fixed array.
func (i Instance) Remote() [32]byte {
	var out [32]byte
	copy(out[:], i.RemoteAddress)
	return out
}

// Validate checks the instance is well formed and that its address matches
// the derivation from its remote identity.
func (i Instance) Validate() error {
	addr, err := sdk.AccAddressFromBech32(i.Address)
	if err != nil {
		return ErrInvalidGenesis.Wrapf("address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(i.Admin); err != nil {
		return ErrInvalidGenesis.Wrapf("admin: %s", err)
	}
	if i.CodeID == 0 {
		return ErrInvalidCodeID
	}
	if len(i.RemoteAddress) != 32 {
		return ErrInvalidGenesis.Wrapf("remote address must be 32 bytes, got %d", len(i.RemoteAddress))
	}
	if !addr.Equals(sdk.AccAddress(DeriveAddress(i.Chain, i.Remote()))) {
		return ErrInvalidGenesis.Wrapf("address %s does not match derivation", i.Address)
	}
	return i.Market.Validate()
}

// InstantiateRequest asks for a new proxy. CorrelationID is echoed in the
// reply so that the requester can resume its pending provisioning.
type InstantiateRequest struct {
	CorrelationID uint64
	CodeID        uint64
	Chain         uint16
	RemoteAddress [32]byte
	Market        MarketConfig
}

// InstantiateReply reports a created proxy.
type InstantiateReply struct {
	CorrelationID uint64
	Address       sdk.AccAddress
}
