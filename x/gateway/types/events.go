package types

// Event types for the gateway module
const (
	EventTypeInstructionProcessed = "instruction_processed"
	EventTypeInstructionRejected  = "instruction_rejected"
	EventTypeOutboundTransfer     = "outbound_transfer"
	EventTypeRemoteGatewaySet     = "remote_gateway_registered"
	EventTypeConfigUpdated        = "gateway_config_updated"

	AttributeKeyOpCode           = "opcode"
	AttributeKeyChain            = "chain"
	AttributeKeySender           = "sender"
	AttributeKeySequence         = "sequence"
	AttributeKeyHash             = "hash"
	AttributeKeyClass            = "class"
	AttributeKeyAsset            = "asset"
	AttributeKeyTransferSequence = "transfer_sequence"
	AttributeKeyInfoSequence     = "info_sequence"
	AttributeKeyAddress          = "address"
	AttributeKeyOwner            = "owner"
)
