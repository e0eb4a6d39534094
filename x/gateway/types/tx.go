package types

import "context"

// MsgServer defines the message server interface
type MsgServer interface {
	SubmitInstruction(context.Context, *MsgSubmitInstruction) (*MsgSubmitInstructionResponse, error)
	RegisterRemoteGateway(context.Context, *MsgRegisterRemoteGateway) (*MsgRegisterRemoteGatewayResponse, error)
	UpdateConfig(context.Context, *MsgUpdateGatewayConfig) (*MsgUpdateGatewayConfigResponse, error)
}

type MsgSubmitInstructionResponse struct{}

type MsgRegisterRemoteGatewayResponse struct{}

type MsgUpdateGatewayConfigResponse struct{}

// QueryServer defines the query interface
type QueryServer interface {
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	SequenceInfo(context.Context, *QuerySequenceInfoRequest) (*QuerySequenceInfoResponse, error)
	RemoteGateway(context.Context, *QueryRemoteGatewayRequest) (*QueryRemoteGatewayResponse, error)
}

type QueryConfigRequest struct{}

type QueryConfigResponse struct {
	Config  Config `json:"config"`
	Address string `json:"address"`
}

type QuerySequenceInfoRequest struct {
	Chain    uint16 `json:"chain"`
	Sequence uint64 `json:"sequence"`
}

type QuerySequenceInfoResponse struct {
	Record SequenceRecord `json:"record"`
}

type QueryRemoteGatewayRequest struct {
	Chain uint16 `json:"chain"`
}

type QueryRemoteGatewayResponse struct {
	Address []byte `json:"address"`
}
