package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
	"github.com/mxvel/topupmart/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade    OrderFacade
	pushEvery time.Duration
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

// NewOrderHandler constructs OrderHandler. pushEvery is the cadence at
// which the status stream re-checks and pushes snapshots.
func NewOrderHandler(facade OrderFacade, pushEvery time.Duration, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		facade:    facade,
		pushEvery: pushEvery,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// List handles GET /api/user/orders.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.Orders(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, dto.ToOrderResponse(o))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/user/orders/:id. Pending UPI orders are re-checked
// against the gateway, so polling this endpoint drives settlement forward.
func (h *OrderHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)
	order, err := h.facade.RefreshOrder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(*order))
}

// Stream handles GET /api/user/orders/:id/stream. It upgrades to a
// websocket and pushes status snapshots until the order reaches a terminal
// state or the client goes away.
func (h *OrderHandler) Stream(c *gin.Context) {
	userID := CurrentUserID(c)
	orderID := c.Param("id")

	order, err := h.facade.Order(c.Request.Context(), userID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("order", orderID), slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Reads only serve disconnect detection.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if !h.push(conn, *order) {
		return
	}
	if order.Status.Terminal() {
		return
	}

	last := order.Status
	ticker := time.NewTicker(h.pushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			order, err := h.facade.RefreshOrder(ctx, userID, orderID)
			if err != nil {
				h.logger.Warn("order stream refresh failed", slog.String("order", orderID), slog.Any("error", err))
				continue
			}
			if order.Status == last {
				continue
			}
			last = order.Status
			if !h.push(conn, *order) {
				return
			}
			if order.Status.Terminal() {
				return
			}
		}
	}
}

func (h *OrderHandler) push(conn *websocket.Conn, order model.Order) bool {
	if err := conn.WriteJSON(dto.ToOrderResponse(order)); err != nil {
		h.logger.Warn("order stream write failed", slog.String("order", order.ID), slog.Any("error", err))
		return false
	}
	return true
}
