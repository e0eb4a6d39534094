package types

// Event types for the proxy module
const (
	EventTypeProxyInstantiated = "proxy_instantiated"
	EventTypeProxyMigrated     = "proxy_migrated"
	EventTypeProxyOperation    = "proxy_operation"

	AttributeKeyProxy         = "proxy"
	AttributeKeyAdmin         = "admin"
	AttributeKeyChain         = "chain"
	AttributeKeyRemoteAddress = "remote_address"
	AttributeKeyCodeID        = "code_id"
	AttributeKeyCorrelationID = "correlation_id"
	AttributeKeyOperation     = "operation"
	AttributeKeyAmount        = "amount"
)
