package model

// ProviderKind tags one of the supported external fulfillment vendors.
type ProviderKind string

const (
	ProviderSmile   ProviderKind = "smile"
	ProviderYokcash ProviderKind = "yokcash"
)

// FulfillmentResult is the normalized outcome of a provider create-order
// call. Adapters map every vendor response and transport failure into this
// shape; Success false with empty ExternalOrderID means nothing was
// delivered. Unreachable distinguishes exhausted transport retries from an
// explicit vendor rejection.
type FulfillmentResult struct {
	Success         bool
	ExternalOrderID string
	Message         string
	Unreachable     bool
}

// GatewayStatus describes payment gateway state for an order as reported by
// the check-order-status endpoint.
type GatewayStatus string

const (
	GatewayStatusPending GatewayStatus = "PENDING"
	GatewayStatusSuccess GatewayStatus = "SUCCESS"
	GatewayStatusFailed  GatewayStatus = "FAILED"
)

// GatewayResult carries the gateway view of a transaction. UTR is the unique
// transaction reference assigned on successful UPI payment.
type GatewayResult struct {
	Status GatewayStatus
	UTR    string
}
