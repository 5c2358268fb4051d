package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ubora-rdc/ubora-auth/internal/logger"
	"github.com/ubora-rdc/ubora-auth/internal/model"
)

const (
	msgOtpResent = "Un nouveau code a été envoyé à votre numéro de téléphone."
	msgLoggedOut = "Déconnexion réussie."
)

// AuthService is the two-step login flow exposed over HTTP.
type AuthService interface {
	Login(ctx context.Context, cuid, password string) (model.LoginResult, error)
	VerifyOtp(ctx context.Context, cuid, otp string) (model.AuthResult, error)
	ResendOtp(ctx context.Context, cuid string) error
	HasPendingSession(ctx context.Context, cuid string) (bool, error)
	Logout(ctx context.Context, principal *model.Principal) error
	CurrentUser(ctx context.Context, principal model.Principal) (model.User, error)
}

type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type loginRequest struct {
	Cuid     string `json:"cuid" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type verifyOtpRequest struct {
	Cuid string `json:"cuid" binding:"required"`
	Otp  string `json:"otp" binding:"required"`
}

type resendOtpRequest struct {
	Cuid string `json:"cuid" binding:"required"`
}

func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Cuid, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Auth) VerifyOtp(c *gin.Context) {
	var req verifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c)
		return
	}

	res, err := h.authService.VerifyOtp(c.Request.Context(), req.Cuid, req.Otp)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ResendOtp refuses to send anything unless the cuid has a pending login.
func (h *Auth) ResendOtp(c *gin.Context) {
	var req resendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c)
		return
	}

	ctx := c.Request.Context()
	pending, err := h.authService.HasPendingSession(ctx, req.Cuid)
	if err != nil {
		h.logger.Error("Auth handler: failed to check pending session",
			"cuid", req.Cuid,
			"error", err.Error())
	}
	if !pending {
		handleError(c, model.NewAuthError(model.KindSessionExpired))
		return
	}

	if err := h.authService.ResendOtp(ctx, req.Cuid); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgOtpResent,
	})
}

func (h *Auth) Logout(c *gin.Context) {
	var principal *model.Principal
	if p, ok := h.contextManager.GetPrincipalFromContext(c.Request.Context()); ok {
		principal = &p
	}

	if err := h.authService.Logout(c.Request.Context(), principal); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgLoggedOut,
	})
}

func (h *Auth) Me(c *gin.Context) {
	principal, ok := h.contextManager.GetPrincipalFromContext(c.Request.Context())
	if !ok {
		handleError(c, model.NewAuthError(model.KindUnauthenticated))
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), principal)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewUserView(user))
}
