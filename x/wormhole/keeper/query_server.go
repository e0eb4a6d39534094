package keeper

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/crosslend/x/wormhole/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the wormhole QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func (qs queryServer) GuardianSet(ctx context.Context, req *types.QueryGuardianSetRequest) (*types.QueryGuardianSetResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	index := qs.GetCurrentGuardianSetIndex(ctx)
	if req.Index != nil {
		index = *req.Index
	}
	gs, found := qs.GetGuardianSet(ctx, index)
	if !found {
		return nil, status.Errorf(codes.NotFound, "guardian set %d not found", index)
	}
	return &types.QueryGuardianSetResponse{GuardianSet: gs}, nil
}

func (qs queryServer) NextSequence(ctx context.Context, req *types.QueryNextSequenceRequest) (*types.QueryNextSequenceResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	return &types.QueryNextSequenceResponse{Sequence: qs.Keeper.NextSequence(ctx, req.Emitter)}, nil
}

func (qs queryServer) Message(ctx context.Context, req *types.QueryMessageRequest) (*types.QueryMessageResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	msg, found := qs.GetMessage(ctx, req.Emitter, req.Sequence)
	if !found {
		return nil, status.Errorf(codes.NotFound, "message %x#%d not found", req.Emitter, req.Sequence)
	}
	return &types.QueryMessageResponse{Message: msg}, nil
}
