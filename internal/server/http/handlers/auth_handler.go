package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/server/http/dto"
	"github.com/mxvel/topupmart/internal/server/http/middleware"
)

// AuthHandler processes registration and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/user/register. A taken login answers 409,
// malformed credentials 400.
func (h *AuthHandler) Register(c *gin.Context) {
	h.issueToken(c, h.facade.Register, http.StatusBadRequest)
}

// Login handles POST /api/user/login. Bad credentials answer 401.
func (h *AuthHandler) Login(c *gin.Context) {
	h.issueToken(c, h.facade.Authenticate, http.StatusUnauthorized)
}

func (h *AuthHandler) issueToken(c *gin.Context, fn func(context.Context, string, string) (string, error), badCredsCode int) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := fn(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.Status(badCredsCode)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}
