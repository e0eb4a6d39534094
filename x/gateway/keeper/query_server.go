package keeper

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/crosslend/x/gateway/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the gateway QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func (qs queryServer) Config(ctx context.Context, req *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	cfg, err := qs.GetConfig(ctx)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return &types.QueryConfigResponse{Config: cfg, Address: qs.ModuleAddress().String()}, nil
}

func (qs queryServer) SequenceInfo(ctx context.Context, req *types.QuerySequenceInfoRequest) (*types.QuerySequenceInfoResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	rec, found := qs.GetSequenceRecord(ctx, req.Chain, req.Sequence)
	if !found {
		return nil, status.Errorf(codes.NotFound, "no record for instruction %d/%d", req.Chain, req.Sequence)
	}
	return &types.QuerySequenceInfoResponse{Record: rec}, nil
}

func (qs queryServer) RemoteGateway(ctx context.Context, req *types.QueryRemoteGatewayRequest) (*types.QueryRemoteGatewayResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	addr, found := qs.GetRemoteGateway(ctx, req.Chain)
	if !found {
		return nil, status.Errorf(codes.NotFound, "no gateway registered for chain %d", req.Chain)
	}
	return &types.QueryRemoteGatewayResponse{Address: addr[:]}, nil
}
