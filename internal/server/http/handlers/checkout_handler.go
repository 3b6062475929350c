package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
	"github.com/mxvel/topupmart/internal/metrics"
	"github.com/mxvel/topupmart/internal/server/http/dto"
)

// RequestIDHeader carries the client supplied idempotency key.
const RequestIDHeader = "X-Request-Id"

// CheckoutHandler starts purchases and wallet top-ups.
type CheckoutHandler struct {
	facade  CheckoutFacade
	metrics *metrics.Metrics
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade, m *metrics.Metrics) *CheckoutHandler {
	return &CheckoutHandler{facade: facade, metrics: m}
}

// Checkout handles POST /api/user/checkout.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.Checkout(c.Request.Context(), model.CheckoutInput{
		UserID:     userID,
		SKU:        req.SKU,
		GameUserID: req.GameUserID,
		ZoneID:     req.ZoneID,
		Payment:    model.PaymentMethod(req.Payment),
		RequestID:  c.GetHeader(RequestIDHeader),
	})
	h.observe(req.Payment, order)
	h.respondOrder(c, order, err)
}

// Topup handles POST /api/user/topup.
func (h *CheckoutHandler) Topup(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.TopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.Status(http.StatusUnprocessableEntity)
		return
	}

	order, err := h.facade.Topup(c.Request.Context(), userID, amount, c.GetHeader(RequestIDHeader))
	h.observe(string(model.PaymentUPI), order)
	h.respondOrder(c, order, err)
}

func (h *CheckoutHandler) respondOrder(c *gin.Context, order *model.Order, err error) {
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidationFailed),
			errors.Is(err, domainErrors.ErrProductInactive),
			errors.Is(err, domainErrors.ErrInvalidAmount):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrDuplicateRequest):
			c.Status(http.StatusConflict)
		case errors.Is(err, domainErrors.ErrInsufficientBalance):
			c.Status(http.StatusPaymentRequired)
		case errors.Is(err, domainErrors.ErrGatewayTimeout) && order != nil:
			// Payment start timed out; the order stays pending and the
			// reconciler will pick it up.
			c.JSON(http.StatusAccepted, dto.ToOrderResponse(*order))
		case order != nil:
			// Provider failure after debit: the order is failed and the
			// wallet already refunded. The client reads the outcome from
			// the order itself.
			c.JSON(http.StatusOK, dto.ToOrderResponse(*order))
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	if order.Status == model.OrderStatusPending {
		c.JSON(http.StatusAccepted, dto.ToOrderResponse(*order))
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(*order))
}

func (h *CheckoutHandler) observe(payment string, order *model.Order) {
	if h.metrics == nil {
		return
	}
	status := "rejected"
	if order != nil {
		status = string(order.Status)
	}
	h.metrics.ObserveCheckout(payment, status)
}
