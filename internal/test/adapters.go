package test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/mxvel/topupmart/internal/adapter/gateway"
	"github.com/mxvel/topupmart/internal/adapter/provider"
	"github.com/mxvel/topupmart/internal/domain/model"
)

// ProviderAdapterStub simulates one fulfillment vendor.
type ProviderAdapterStub struct {
	KindVal   model.ProviderKind
	Result    model.FulfillmentResult
	CreateFn  func(context.Context, provider.Request) model.FulfillmentResult
	BalanceFn func(context.Context) (decimal.Decimal, error)

	mu       sync.Mutex
	Requests []provider.Request
}

// Kind returns the configured provider kind.
func (s *ProviderAdapterStub) Kind() model.ProviderKind {
	if s.KindVal == "" {
		return model.ProviderSmile
	}
	return s.KindVal
}

// CreateOrder records the request and returns the configured result.
func (s *ProviderAdapterStub) CreateOrder(ctx context.Context, req provider.Request) model.FulfillmentResult {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return s.Result
}

// Balance returns the configured balance.
func (s *ProviderAdapterStub) Balance(ctx context.Context) (decimal.Decimal, error) {
	if s.BalanceFn != nil {
		return s.BalanceFn(ctx)
	}
	return decimal.NewFromInt(1000), nil
}

// CallCount reports how many orders were placed against the stub.
func (s *ProviderAdapterStub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// RegistryStub resolves every kind to a single stub adapter.
type RegistryStub struct {
	Adapter *ProviderAdapterStub
	Err     error
}

// ForKind returns the stub adapter or the configured error.
func (s *RegistryStub) ForKind(kind model.ProviderKind) (provider.Adapter, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Adapter, nil
}

// GatewayClientStub simulates the payment gateway.
type GatewayClientStub struct {
	StartFn  func(context.Context, string, decimal.Decimal) (*gateway.StartOrderResult, error)
	StatusFn func(context.Context, string) (*model.GatewayResult, error)

	StartCalls  atomic.Int32
	StatusCalls atomic.Int32
}

// StartOrder delegates to the override or returns a default payment URL.
func (s *GatewayClientStub) StartOrder(ctx context.Context, orderID string, amount decimal.Decimal) (*gateway.StartOrderResult, error) {
	s.StartCalls.Add(1)
	if s.StartFn != nil {
		return s.StartFn(ctx, orderID, amount)
	}
	return &gateway.StartOrderResult{GatewayOrderID: "GW-" + orderID, PaymentURL: "upi://pay?tid=" + orderID}, nil
}

// CheckStatus delegates to the override or reports pending.
func (s *GatewayClientStub) CheckStatus(ctx context.Context, orderID string) (*model.GatewayResult, error) {
	s.StatusCalls.Add(1)
	if s.StatusFn != nil {
		return s.StatusFn(ctx, orderID)
	}
	return &model.GatewayResult{Status: model.GatewayStatusPending}, nil
}

// LookupClientStub resolves every account to a fixed username.
type LookupClientStub struct {
	Name       string
	UsernameFn func(context.Context, string, string, string) (string, error)
}

// Username delegates to the override or returns the configured name.
func (s *LookupClientStub) Username(ctx context.Context, game, gameUserID, zoneID string) (string, error) {
	if s.UsernameFn != nil {
		return s.UsernameFn(ctx, game, gameUserID, zoneID)
	}
	if s.Name != "" {
		return s.Name, nil
	}
	return "playerOne", nil
}

// GuardStub is an in-memory request guard.
type GuardStub struct {
	mu       sync.Mutex
	Reserved map[string]string
	Err      error
}

// NewGuardStub constructs guard stub with initialized map.
func NewGuardStub() *GuardStub {
	return &GuardStub{Reserved: make(map[string]string)}
}

// Reserve wins only for an unseen request id.
func (s *GuardStub) Reserve(ctx context.Context, requestID string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Reserved == nil {
		s.Reserved = make(map[string]string)
	}
	if _, exists := s.Reserved[requestID]; exists {
		return false, nil
	}
	s.Reserved[requestID] = ""
	return true, nil
}

// Bind attaches an order id to a reservation.
func (s *GuardStub) Bind(ctx context.Context, requestID, orderID string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Reserved == nil {
		s.Reserved = make(map[string]string)
	}
	s.Reserved[requestID] = orderID
	return nil
}

// Lookup returns the bound order id, if any.
func (s *GuardStub) Lookup(ctx context.Context, requestID string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Reserved[requestID], nil
}

// Release drops a reservation.
func (s *GuardStub) Release(ctx context.Context, requestID string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Reserved, requestID)
	return nil
}
