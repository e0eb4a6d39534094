package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/crosslend/x/router/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the router QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// Config returns the router config
func (qs queryServer) Config(ctx context.Context, req *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	cfg, err := qs.Keeper.GetConfig(ctx)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return &types.QueryConfigResponse{Config: cfg}, nil
}

// ProxyAddress returns the proxy of a remote user
func (qs queryServer) ProxyAddress(ctx context.Context, req *types.QueryProxyAddressRequest) (*types.QueryProxyAddressResponse, error) {
	if req == nil || len(req.RemoteAddress) != 32 {
		return nil, status.Error(codes.InvalidArgument, "remote address must be 32 bytes")
	}
	var remote [32]byte
	copy(remote[:], req.RemoteAddress)

	proxy, found := qs.Keeper.GetProxyAddress(ctx, req.Chain, remote)
	if !found {
		return nil, status.Errorf(codes.NotFound, "no proxy for %d/%x", req.Chain, remote)
	}
	return &types.QueryProxyAddressResponse{Proxy: proxy.String()}, nil
}

// IsWhitelisted reports whether an address is a trusted relay
func (qs queryServer) IsWhitelisted(ctx context.Context, req *types.QueryIsWhitelistedRequest) (*types.QueryIsWhitelistedResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	addr, err := sdk.AccAddressFromBech32(req.Address)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid address: %s", err)
	}
	return &types.QueryIsWhitelistedResponse{Whitelisted: qs.Keeper.IsWhitelisted(ctx, addr)}, nil
}
