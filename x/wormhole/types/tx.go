package types

import "context"

// MsgServer defines the message server interface
type MsgServer interface {
	RegisterForeignBridge(context.Context, *MsgRegisterForeignBridge) (*MsgRegisterForeignBridgeResponse, error)
	UpdateGuardianSet(context.Context, *MsgUpdateGuardianSet) (*MsgUpdateGuardianSetResponse, error)
	SubmitTransfer(context.Context, *MsgSubmitTransfer) (*MsgSubmitTransferResponse, error)
}

type MsgRegisterForeignBridgeResponse struct{}

type MsgUpdateGuardianSetResponse struct {
	Index uint32 `json:"index"`
}

type MsgSubmitTransferResponse struct{}

// QueryServer defines the query interface
type QueryServer interface {
	GuardianSet(context.Context, *QueryGuardianSetRequest) (*QueryGuardianSetResponse, error)
	NextSequence(context.Context, *QueryNextSequenceRequest) (*QueryNextSequenceResponse, error)
	Message(context.Context, *QueryMessageRequest) (*QueryMessageResponse, error)
}

// QueryGuardianSetRequest selects the active set when Index is nil.
type QueryGuardianSetRequest struct {
	Index *uint32 `json:"index,omitempty"`
}

type QueryGuardianSetResponse struct {
	GuardianSet GuardianSet `json:"guardian_set"`
}

type QueryNextSequenceRequest struct {
	Emitter [32]byte `json:"emitter"`
}

type QueryNextSequenceResponse struct {
	Sequence uint64 `json:"sequence"`
}

type QueryMessageRequest struct {
	Emitter  [32]byte `json:"emitter"`
	Sequence uint64   `json:"sequence"`
}

type QueryMessageResponse struct {
	Message MessagePublication `json:"message"`
}
