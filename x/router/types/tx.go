package types

import "context"

// MsgServer defines the message server interface
type MsgServer interface {
	AddBridges(context.Context, *MsgAddBridges) (*MsgAddBridgesResponse, error)
	UpdateConfig(context.Context, *MsgUpdateConfig) (*MsgUpdateConfigResponse, error)
	StakeVotingTokens(context.Context, *MsgStakeVotingTokens) (*MsgStakeVotingTokensResponse, error)
	WithdrawVotingTokens(context.Context, *MsgWithdrawVotingTokens) (*MsgWithdrawVotingTokensResponse, error)
	CastVote(context.Context, *MsgCastVote) (*MsgCastVoteResponse, error)
}

// MsgAddBridgesResponse is the response of AddBridges
type MsgAddBridgesResponse struct {
	Added uint32 `json:"added"`
}

// MsgUpdateConfigResponse is the response of UpdateConfig
type MsgUpdateConfigResponse struct{}

type MsgStakeVotingTokensResponse struct{}

type MsgWithdrawVotingTokensResponse struct{}

type MsgCastVoteResponse struct{}

// QueryServer defines the query interface
type QueryServer interface {
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	ProxyAddress(context.Context, *QueryProxyAddressRequest) (*QueryProxyAddressResponse, error)
	IsWhitelisted(context.Context, *QueryIsWhitelistedRequest) (*QueryIsWhitelistedResponse, error)
}

type QueryConfigRequest struct{}

type QueryConfigResponse struct {
	Config Config `json:"config"`
}

type QueryProxyAddressRequest struct {
	Chain         uint16 `json:"chain"`
	RemoteAddress []byte `json:"remote_address"`
}

type QueryProxyAddressResponse struct {
	Proxy string `json:"proxy"`
}

type QueryIsWhitelistedRequest struct {
	Address string `json:"address"`
}

type QueryIsWhitelistedResponse struct {
	Whitelisted bool `json:"whitelisted"`
}
