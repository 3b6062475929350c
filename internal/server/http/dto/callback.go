package dto

// PaymentCallbackRequest is the webhook payload the payment gateway posts
// once a UPI transaction settles. The raw body is HMAC-signed; handlers
// verify the signature before decoding.
type PaymentCallbackRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	UTR     string `json:"utr,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
