package types

// Event types for the router module
const (
	EventTypeProxyRequested   = "proxy_requested"
	EventTypeProxyProvisioned = "proxy_provisioned"
	EventTypeOperation        = "router_operation"
	EventTypeBridgesAdded     = "bridges_added"
	EventTypeConfigUpdated    = "router_config_updated"

	AttributeKeyChain         = "chain"
	AttributeKeyRemoteAddress = "remote_address"
	AttributeKeyProxy         = "proxy"
	AttributeKeyCorrelationID = "correlation_id"
	AttributeKeyOperation     = "operation"
	AttributeKeyOrigin        = "origin"
	AttributeKeyAmount        = "amount"
	AttributeKeyBridge        = "bridge"
	AttributeKeyOwner         = "owner"
	AttributeKeyCodeID        = "code_id"
)
