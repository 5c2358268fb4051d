package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ubora-rdc/ubora-auth/internal/logger"
	"github.com/ubora-rdc/ubora-auth/internal/model"
)

const bearerPrefix = "Bearer "

// TokenService resolves the principal behind a bearer token.
type TokenService interface {
	Authenticate(ctx context.Context, token string) (model.Principal, error)
}

// Authenticate validates bearer tokens and injects the principal into the request context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handle rejects requests without a valid, unrevoked bearer token.
func (m *Authenticate) Handle(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		unauthenticated(c)
		return
	}

	ctx := c.Request.Context()
	principal, err := m.tokenService.Authenticate(ctx, token)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected",
			"path", c.FullPath(),
			"error", err.Error())
		unauthenticated(c)
		return
	}

	c.Request = c.Request.WithContext(m.contextManager.SetPrincipalToContext(ctx, principal))
	c.Next()
}

func bearerToken(header string) string {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

func unauthenticated(c *gin.Context) {
	err := model.NewAuthError(model.KindUnauthenticated)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"errors": err.Message,
		"code":   err.Kind,
	})
}
