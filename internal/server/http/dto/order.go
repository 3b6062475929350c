package dto

import (
	"time"

	"github.com/mxvel/topupmart/internal/domain/model"
)

// CheckoutRequest describes a purchase submission. The idempotency key is
// carried in the X-Request-Id header, not in the body.
type CheckoutRequest struct {
	SKU        string `json:"sku"`
	GameUserID string `json:"uid"`
	ZoneID     string `json:"zone,omitempty"`
	Payment    string `json:"payment"`
}

// TopupRequest starts a UPI wallet top-up. Amount is a decimal string.
type TopupRequest struct {
	Amount string `json:"amount"`
}

// OrderResponse is the wire representation of an order.
type OrderResponse struct {
	ID            string     `json:"id"`
	Item          string     `json:"item"`
	GameUserID    string     `json:"uid,omitempty"`
	ZoneID        string     `json:"zone,omitempty"`
	GameUsername  string     `json:"username,omitempty"`
	Payment       string     `json:"payment"`
	Cost          string     `json:"cost"`
	Status        string     `json:"status"`
	PaymentURL    string     `json:"payment_url,omitempty"`
	UTR           string     `json:"utr,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	Fulfilled     bool       `json:"fulfilled"`
	FulfilledAt   *time.Time `json:"fulfilled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToOrderResponse converts an order into its wire form.
func ToOrderResponse(order model.Order) OrderResponse {
	resp := OrderResponse{
		ID:           order.ID,
		Item:         order.Item,
		GameUserID:   order.GameUserID,
		ZoneID:       order.ZoneID,
		GameUsername: order.GameUsername,
		Payment:      string(order.Payment),
		Cost:         order.Cost.String(),
		Status:       string(order.Status),
		Fulfilled:    order.Fulfilled,
		FulfilledAt:  order.FulfilledAt,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
	if order.PaymentURL != nil {
		resp.PaymentURL = *order.PaymentURL
	}
	if order.UTR != nil {
		resp.UTR = *order.UTR
	}
	if order.FailureReason != nil {
		resp.FailureReason = *order.FailureReason
	}
	return resp
}
