package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mxvel/topupmart/internal/adapter/gateway"
	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
	"github.com/mxvel/topupmart/internal/server/http/dto"
)

// SignatureHeader carries the gateway's HMAC over the raw request body.
const SignatureHeader = "X-Signature"

// CallbackHandler receives payment gateway webhooks.
type CallbackHandler struct {
	facade PaymentFacade
	secret []byte
	logger *slog.Logger
}

// NewCallbackHandler constructs CallbackHandler.
func NewCallbackHandler(facade PaymentFacade, secret []byte, logger *slog.Logger) *CallbackHandler {
	return &CallbackHandler{facade: facade, secret: secret, logger: logger}
}

// Callback handles POST /api/payments/callback. The signature is checked
// against the raw body before anything is decoded.
func (h *CallbackHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if !gateway.VerifySignature(h.secret, body, c.GetHeader(SignatureHeader)) {
		h.logger.Warn("callback signature mismatch")
		c.Status(http.StatusUnauthorized)
		return
	}

	var req dto.PaymentCallbackRequest
	if err := json.Unmarshal(body, &req); err != nil || req.OrderID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	switch model.GatewayStatus(req.Status) {
	case model.GatewayStatusSuccess:
		_, err = h.facade.ConfirmPayment(c.Request.Context(), req.OrderID, req.UTR)
	case model.GatewayStatusFailed:
		reason := req.Reason
		if reason == "" {
			reason = "payment failed"
		}
		err = h.facade.FailPayment(c.Request.Context(), req.OrderID, reason)
	default:
		c.Status(http.StatusBadRequest)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			h.logger.Error("callback settlement failed",
				slog.String("order", req.OrderID),
				slog.Any("error", err),
			)
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.Status(http.StatusOK)
}
