package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ubora-rdc/ubora-auth/internal/api/http/handler"
	"github.com/ubora-rdc/ubora-auth/internal/api/http/middleware"
	"github.com/ubora-rdc/ubora-auth/internal/logger"
	"github.com/ubora-rdc/ubora-auth/internal/model"
)

// Router wires the public HTTP API.
type Router struct {
	authService    handler.AuthService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func New(
	authService handler.AuthService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the gin engine with every route and middleware.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), logging.Handle)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.registerAuthRoutes(engine.Group("/api/auth"), authenticate)

	return engine
}

func (r *Router) registerAuthRoutes(group *gin.RouterGroup, authenticate *middleware.Authenticate) {
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)

	group.POST("/login", authHandler.Login)
	group.POST("/verify-otp", authHandler.VerifyOtp)
	group.POST("/resend-otp", authHandler.ResendOtp)

	protected := group.Group("", authenticate.Handle)
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.Me)
}
