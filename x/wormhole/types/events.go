package types

// Event types for the wormhole module
const (
	EventTypeMessagePosted     = "wormhole_message"
	EventTypeTransferInitiated = "wormhole_transfer_initiated"
	EventTypeTransferCompleted = "wormhole_transfer_completed"
	EventTypeGuardianSetUpdate = "wormhole_guardian_set_update"

	AttributeKeyEmitter   = "emitter"
	AttributeKeySequence  = "sequence"
	AttributeKeyNonce     = "nonce"
	AttributeKeyPayload   = "payload"
	AttributeKeyChain     = "chain"
	AttributeKeyRecipient = "recipient"
	AttributeKeyAmount    = "amount"
	AttributeKeyFee       = "fee"
	AttributeKeyIndex     = "index"
)
