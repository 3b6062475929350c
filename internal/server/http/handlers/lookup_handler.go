package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mxvel/topupmart/internal/adapter/lookup"
	"github.com/mxvel/topupmart/internal/server/http/dto"
)

// LookupHandler proxies in-game account verification.
type LookupHandler struct {
	facade LookupFacade
}

// NewLookupHandler constructs LookupHandler.
func NewLookupHandler(facade LookupFacade) *LookupHandler {
	return &LookupHandler{facade: facade}
}

// Lookup handles POST /api/user/lookup.
func (h *LookupHandler) Lookup(c *gin.Context) {
	var req dto.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Game) == "" || strings.TrimSpace(req.GameUserID) == "" {
		c.Status(http.StatusUnprocessableEntity)
		return
	}

	username, err := h.facade.LookupAccount(c.Request.Context(), req.Game, req.GameUserID, req.ZoneID)
	if err != nil {
		switch {
		case errors.Is(err, lookup.ErrAccountNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusBadGateway)
		}
		return
	}
	c.JSON(http.StatusOK, dto.LookupResponse{Username: username})
}
