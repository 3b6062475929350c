package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mxvel/topupmart/internal/adapter/gateway"
	"github.com/mxvel/topupmart/internal/adapter/lookup"
	"github.com/mxvel/topupmart/internal/adapter/provider"
	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
	"github.com/mxvel/topupmart/internal/domain/repository"
	"github.com/mxvel/topupmart/internal/pkg/orderid"
)

// ProviderRegistry resolves a provider kind to its adapter.
type ProviderRegistry interface {
	ForKind(kind model.ProviderKind) (provider.Adapter, error)
}

// RequestGuard deduplicates checkout requests by idempotency key.
type RequestGuard interface {
	Reserve(ctx context.Context, requestID string) (bool, error)
	Bind(ctx context.Context, requestID, orderID string) error
	Lookup(ctx context.Context, requestID string) (string, error)
	Release(ctx context.Context, requestID string) error
}

// CheckoutDeps lists the collaborators of the checkout flow.
type CheckoutDeps struct {
	Users     repository.UserRepository
	Products  repository.ProductRepository
	Orders    repository.OrderRepository
	Balances  repository.BalanceRepository
	Providers ProviderRegistry
	Gateway   gateway.Client
	Lookup    lookup.Client
	Guard     RequestGuard
	Window    time.Duration
	Logger    *slog.Logger
}

// CheckoutUseCase orchestrates the order lifecycle: checkout, payment
// settlement, fulfillment, refund. It owns every status transition after
// order creation; handlers and the background reconciler both drive it.
type CheckoutUseCase struct {
	users     repository.UserRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	balances  repository.BalanceRepository
	providers ProviderRegistry
	gateway   gateway.Client
	lookup    lookup.Client
	guard     RequestGuard
	window    time.Duration
	logger    *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(d CheckoutDeps) *CheckoutUseCase {
	return &CheckoutUseCase{
		users:     d.Users,
		products:  d.Products,
		orders:    d.Orders,
		balances:  d.Balances,
		providers: d.Providers,
		gateway:   d.Gateway,
		lookup:    d.Lookup,
		guard:     d.Guard,
		window:    d.Window,
		logger:    d.Logger,
	}
}

// Checkout runs one purchase attempt. Coin orders are debited and fulfilled
// inline; UPI orders are handed to the payment gateway and stay pending
// until ConfirmPayment. The returned order carries the outcome even when an
// error is also returned.
func (u *CheckoutUseCase) Checkout(ctx context.Context, in model.CheckoutInput) (*model.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if existing, err := u.claimRequest(ctx, in.RequestID); err != nil {
		return existing, err
	} else if existing != nil {
		return existing, nil
	}

	product, err := u.products.GetBySKU(ctx, in.SKU)
	if err != nil {
		u.releaseRequest(ctx, in.RequestID)
		return nil, err
	}
	if !product.Active {
		u.releaseRequest(ctx, in.RequestID)
		return nil, domainErrors.ErrProductInactive
	}

	user, err := u.users.GetByID(ctx, in.UserID)
	if err != nil {
		u.releaseRequest(ctx, in.RequestID)
		return nil, err
	}

	username, err := u.lookup.Username(ctx, product.Game, in.GameUserID, in.ZoneID)
	if err != nil {
		u.releaseRequest(ctx, in.RequestID)
		if errors.Is(err, lookup.ErrAccountNotFound) {
			return nil, domainErrors.ErrValidationFailed
		}
		return nil, err
	}

	order := &model.Order{
		ID:           orderid.New(orderPrefix(product.Game)),
		UserID:       user.ID,
		ProductID:    product.ID,
		Item:         product.Item,
		GameUserID:   in.GameUserID,
		ZoneID:       in.ZoneID,
		GameUsername: username,
		Payment:      in.Payment,
		Cost:         product.PriceFor(user.Role),
		Status:       model.OrderStatusPending,
		Provider:     product.Provider,
	}
	if err := u.orders.Create(ctx, order); err != nil {
		u.releaseRequest(ctx, in.RequestID)
		return nil, err
	}
	u.bindRequest(ctx, in.RequestID, order.ID)

	if in.Payment == model.PaymentCoin {
		return u.fulfillCoin(ctx, order)
	}
	return u.startUPI(ctx, order)
}

// Topup starts a UPI wallet top-up: an order with no product that credits
// the balance once the gateway confirms payment.
func (u *CheckoutUseCase) Topup(ctx context.Context, userID int64, amount decimal.Decimal, requestID string) (*model.Order, error) {
	if !amount.IsPositive() {
		return nil, domainErrors.ErrInvalidAmount
	}

	if existing, err := u.claimRequest(ctx, requestID); err != nil {
		return existing, err
	} else if existing != nil {
		return existing, nil
	}

	order := &model.Order{
		ID:      orderid.New("TOPUP"),
		UserID:  userID,
		Item:    "wallet topup",
		Payment: model.PaymentUPI,
		Cost:    amount,
		Status:  model.OrderStatusPending,
		Topup:   true,
	}
	if err := u.orders.Create(ctx, order); err != nil {
		u.releaseRequest(ctx, requestID)
		return nil, err
	}
	u.bindRequest(ctx, requestID, order.ID)

	return u.startUPI(ctx, order)
}

// ConfirmPayment settles a UPI order after the gateway reports success:
// records the UTR, then credits the wallet (topup) or fulfills the product.
// Safe to replay; a settled order is returned unchanged.
func (u *CheckoutUseCase) ConfirmPayment(ctx context.Context, orderID, utr string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return order, nil
	}

	if err := u.orders.MarkProcessing(ctx, order.ID, utr); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrOrderTerminal):
			return u.orders.GetByID(ctx, orderID)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			// Already processing: a previous settlement attempt stalled,
			// continue and let the idempotent steps below finish it.
		default:
			return nil, err
		}
	}
	order.Status = model.OrderStatusProcessing
	if utr != "" {
		order.UTR = &utr
	}

	if order.Topup {
		return u.settleTopup(ctx, order)
	}
	return u.fulfill(ctx, order)
}

// FailPayment finalizes a non-settled order. Replays against a terminal
// order are no-ops.
func (u *CheckoutUseCase) FailPayment(ctx context.Context, orderID, reason string) error {
	err := u.orders.MarkFailed(ctx, orderID, reason)
	if errors.Is(err, domainErrors.ErrOrderTerminal) {
		return nil
	}
	return err
}

// Refresh re-checks the gateway for a pending UPI order on behalf of a
// status poll. Gateway errors are swallowed: polling is best-effort and the
// reconciler will catch up.
func (u *CheckoutUseCase) Refresh(ctx context.Context, order *model.Order) (*model.Order, error) {
	if order.Status.Terminal() || order.Payment != model.PaymentUPI {
		return order, nil
	}

	res, err := u.gateway.CheckStatus(ctx, order.ID)
	if err != nil {
		u.logger.Warn("gateway status check failed", slog.String("order", order.ID), slog.String("error", err.Error()))
		return order, nil
	}

	switch res.Status {
	case model.GatewayStatusSuccess:
		return u.ConfirmPayment(ctx, order.ID, res.UTR)
	case model.GatewayStatusFailed:
		if err := u.FailPayment(ctx, order.ID, "payment failed"); err != nil {
			return nil, err
		}
		return u.orders.GetByID(ctx, order.ID)
	default:
		return order, nil
	}
}

// Reconcile resolves one stuck order picked up by the background worker.
// UPI orders are re-checked against the gateway and expired past the payment
// window; coin orders that crashed between debit and fulfillment are
// re-driven or refunded.
func (u *CheckoutUseCase) Reconcile(ctx context.Context, order *model.Order) error {
	if order.Status.Terminal() {
		return nil
	}

	if order.Payment == model.PaymentUPI {
		return u.reconcileUPI(ctx, order)
	}
	return u.reconcileCoin(ctx, order)
}

func (u *CheckoutUseCase) reconcileUPI(ctx context.Context, order *model.Order) error {
	res, err := u.gateway.CheckStatus(ctx, order.ID)
	if err == nil {
		switch res.Status {
		case model.GatewayStatusSuccess:
			_, err := u.ConfirmPayment(ctx, order.ID, res.UTR)
			return err
		case model.GatewayStatusFailed:
			return u.FailPayment(ctx, order.ID, "payment failed")
		}
	} else {
		u.logger.Warn("gateway status check failed", slog.String("order", order.ID), slog.String("error", err.Error()))
	}

	if order.Status == model.OrderStatusPending && time.Since(order.CreatedAt) > u.window {
		return u.FailPayment(ctx, order.ID, "payment window expired")
	}
	return nil
}

func (u *CheckoutUseCase) reconcileCoin(ctx context.Context, order *model.Order) error {
	entries, err := u.balances.LedgerByOrder(ctx, order.ID)
	if err != nil {
		return err
	}

	var debited, refunded bool
	for _, e := range entries {
		switch e.Type {
		case model.LedgerDeduction:
			debited = true
		case model.LedgerRefund:
			refunded = true
		}
	}

	if !debited {
		// Crashed before the debit: nothing was taken, nothing delivered.
		return u.FailPayment(ctx, order.ID, "checkout abandoned")
	}
	if refunded {
		return u.FailPayment(ctx, order.ID, "refunded")
	}

	// Debited but never fulfilled. Re-drive the provider call; vendors
	// deduplicate on our order id, and a failure refunds the debit.
	_, err = u.fulfill(ctx, order)
	if errors.Is(err, domainErrors.ErrProviderRejected) || errors.Is(err, domainErrors.ErrProviderUnreachable) {
		return nil
	}
	return err
}

func (u *CheckoutUseCase) fulfillCoin(ctx context.Context, order *model.Order) (*model.Order, error) {
	_, err := u.balances.DebitForOrder(ctx, order.UserID, order.ID, order.Cost, "purchase "+order.Item)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInsufficientBalance) {
			reason := "insufficient balance"
			if failErr := u.orders.MarkFailed(ctx, order.ID, reason); failErr != nil {
				u.logger.Error("failed to finalize order", slog.String("order", order.ID), slog.String("error", failErr.Error()))
			}
			order.Status = model.OrderStatusFailed
			order.FailureReason = &reason
			return order, domainErrors.ErrInsufficientBalance
		}
		return nil, err
	}
	return u.fulfill(ctx, order)
}

// fulfill calls the provider adapter and finalizes the order. The payment
// side is already settled when this runs, so a fulfillment failure always
// refunds the cost to the wallet.
func (u *CheckoutUseCase) fulfill(ctx context.Context, order *model.Order) (*model.Order, error) {
	adapter, err := u.providers.ForKind(order.Provider)
	if err != nil {
		return u.refundAndFail(ctx, order, "provider unavailable", domainErrors.ErrProviderUnreachable)
	}

	product, err := u.products.GetByID(ctx, order.ProductID)
	if err != nil {
		return u.refundAndFail(ctx, order, "product unavailable", err)
	}

	result := adapter.CreateOrder(ctx, provider.Request{
		OrderID:     order.ID,
		ProductCode: product.ProviderCode,
		GameUserID:  order.GameUserID,
		ZoneID:      order.ZoneID,
	})
	if !result.Success {
		cause := domainErrors.ErrProviderRejected
		if result.Unreachable {
			cause = domainErrors.ErrProviderUnreachable
		}
		return u.refundAndFail(ctx, order, result.Message, cause)
	}

	now := time.Now()
	if err := u.orders.MarkCompleted(ctx, order.ID, result.ExternalOrderID, now); err != nil {
		if errors.Is(err, domainErrors.ErrOrderTerminal) {
			return u.orders.GetByID(ctx, order.ID)
		}
		return nil, err
	}
	order.Status = model.OrderStatusCompleted
	order.Fulfilled = true
	order.FulfilledAt = &now
	order.ExternalOrderID = &result.ExternalOrderID
	return order, nil
}

func (u *CheckoutUseCase) settleTopup(ctx context.Context, order *model.Order) (*model.Order, error) {
	if _, err := u.balances.CreditTopup(ctx, order.UserID, order.ID, order.Cost, "upi topup"); err != nil {
		// A duplicate entry means a replayed settlement already credited.
		if !errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, err
		}
	}

	now := time.Now()
	if err := u.orders.MarkCompleted(ctx, order.ID, "", now); err != nil {
		if errors.Is(err, domainErrors.ErrOrderTerminal) {
			return u.orders.GetByID(ctx, order.ID)
		}
		return nil, err
	}
	order.Status = model.OrderStatusCompleted
	order.Fulfilled = true
	order.FulfilledAt = &now
	return order, nil
}

func (u *CheckoutUseCase) startUPI(ctx context.Context, order *model.Order) (*model.Order, error) {
	res, err := u.gateway.StartOrder(ctx, order.ID, order.Cost)
	if err != nil {
		if errors.Is(err, domainErrors.ErrGatewayTimeout) {
			// The gateway may still have accepted the order; leave it
			// pending for the reconciler instead of failing it.
			return order, domainErrors.ErrGatewayTimeout
		}
		reason := "payment gateway unavailable"
		if failErr := u.orders.MarkFailed(ctx, order.ID, reason); failErr != nil {
			u.logger.Error("failed to finalize order", slog.String("order", order.ID), slog.String("error", failErr.Error()))
		}
		order.Status = model.OrderStatusFailed
		order.FailureReason = &reason
		return order, err
	}

	if err := u.orders.SetPaymentURL(ctx, order.ID, res.PaymentURL); err != nil {
		return nil, err
	}
	order.PaymentURL = &res.PaymentURL
	return order, nil
}

func (u *CheckoutUseCase) refundAndFail(ctx context.Context, order *model.Order, reason string, cause error) (*model.Order, error) {
	if _, err := u.balances.RefundForOrder(ctx, order.UserID, order.ID, order.Cost, reason); err != nil {
		if !errors.Is(err, domainErrors.ErrAlreadyExists) {
			u.logger.Error("refund failed", slog.String("order", order.ID), slog.String("error", err.Error()))
			return nil, err
		}
	}
	if err := u.orders.MarkFailed(ctx, order.ID, reason); err != nil && !errors.Is(err, domainErrors.ErrOrderTerminal) {
		return nil, err
	}
	order.Status = model.OrderStatusFailed
	order.FailureReason = &reason
	return order, cause
}

// claimRequest enforces request-id idempotency. It returns a non-nil order
// when a previous request with the same id already created one.
func (u *CheckoutUseCase) claimRequest(ctx context.Context, requestID string) (*model.Order, error) {
	if requestID == "" {
		return nil, nil
	}

	if orderID, err := u.guard.Lookup(ctx, requestID); err != nil {
		return nil, err
	} else if orderID != "" {
		return u.orders.GetByID(ctx, orderID)
	}

	won, err := u.guard.Reserve(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if won {
		return nil, nil
	}

	// Lost the race. The winner may have bound its order already.
	if orderID, err := u.guard.Lookup(ctx, requestID); err == nil && orderID != "" {
		return u.orders.GetByID(ctx, orderID)
	}
	return nil, domainErrors.ErrDuplicateRequest
}

func (u *CheckoutUseCase) bindRequest(ctx context.Context, requestID, orderID string) {
	if requestID == "" {
		return
	}
	if err := u.guard.Bind(ctx, requestID, orderID); err != nil {
		u.logger.Warn("failed to bind request id", slog.String("order", orderID), slog.String("error", err.Error()))
	}
}

func (u *CheckoutUseCase) releaseRequest(ctx context.Context, requestID string) {
	if requestID == "" {
		return
	}
	if err := u.guard.Release(ctx, requestID); err != nil {
		u.logger.Warn("failed to release request id", slog.String("error", err.Error()))
	}
}

func orderPrefix(game string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(game) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= 6 {
			break
		}
	}
	if b.Len() == 0 {
		return "ORD"
	}
	return b.String()
}
