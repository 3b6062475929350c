package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mxvel/topupmart/internal/server/http/dto"
)

// BalanceHandler manages wallet endpoints.
type BalanceHandler struct {
	facade BalanceFacade
}

// NewBalanceHandler constructs BalanceHandler.
func NewBalanceHandler(facade BalanceFacade) *BalanceHandler {
	return &BalanceHandler{facade: facade}
}

// Summary handles GET /api/user/balance.
func (h *BalanceHandler) Summary(c *gin.Context) {
	userID := CurrentUserID(c)
	balance, err := h.facade.Balance(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance.String()})
}

// Ledger handles GET /api/user/ledger.
func (h *BalanceHandler) Ledger(c *gin.Context) {
	userID := CurrentUserID(c)
	entries, err := h.facade.Ledger(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(entries) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.ToLedgerEntryResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}
