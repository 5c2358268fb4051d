package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc/health"

	grpchealth "github.com/ubora-rdc/ubora-auth/internal/api/grpc/health"
	grpcrouter "github.com/ubora-rdc/ubora-auth/internal/api/grpc/router"
	grpcserver "github.com/ubora-rdc/ubora-auth/internal/api/grpc/server"
	httpctx "github.com/ubora-rdc/ubora-auth/internal/api/http/context"
	httprouter "github.com/ubora-rdc/ubora-auth/internal/api/http/router"
	httpserver "github.com/ubora-rdc/ubora-auth/internal/api/http/server"
	"github.com/ubora-rdc/ubora-auth/internal/cache"
	"github.com/ubora-rdc/ubora-auth/internal/config"
	"github.com/ubora-rdc/ubora-auth/internal/directory"
	"github.com/ubora-rdc/ubora-auth/internal/logger"
	"github.com/ubora-rdc/ubora-auth/internal/model"
	"github.com/ubora-rdc/ubora-auth/internal/otp"
	"github.com/ubora-rdc/ubora-auth/internal/repository/postgres"
	"github.com/ubora-rdc/ubora-auth/internal/server"
	"github.com/ubora-rdc/ubora-auth/internal/service"
	"github.com/ubora-rdc/ubora-auth/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	healthServer := health.NewServer()
	prober := grpchealth.NewProber(healthServer, cfg.GRPC.ProbeInterval, logger)
	prober.Register("postgres", db)

	var store model.Cache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		redisCache := cache.NewRedis(redisClient, cfg.Redis.KeyPrefix)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Fatal("failed to connect to redis", "error", err, "address", cfg.Redis.Addr)
		}
		prober.Register("redis", redisCache)
		store = redisCache
	} else {
		logger.Warn("Redis disabled, using in-process cache; run a single instance only")
		store = cache.NewMemory()
	}

	var otpGateway model.OtpGateway
	if cfg.OTP.DryRun {
		logger.Warn("OTP dry-run enabled, no SMS will be sent")
		otpGateway = otp.NewDryRun(cfg.OTP.DryRunCode, logger)
	} else {
		otpGateway = otp.NewClient(cfg.OTP, logger)
	}
	directoryClient := directory.NewClient(cfg.Directory, logger)

	userRepo := postgres.NewUserRepository(db)
	accessTokenRepo := postgres.NewAccessTokenRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer)

	tokenService := service.NewTokenService(tokenManager, accessTokenRepo, logger)
	authService := service.NewAuth(directoryClient, otpGateway, store, userRepo, tokenService, logger)

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := httprouter.New(authService, tokenService, httpctx.NewManager(), logger).Register()
	servers := []model.Server{
		httpserver.NewHTTPServer(engine, fmt.Sprintf(":%s", cfg.HTTP.Port)),
		grpcserver.NewGRPCServer(grpcrouter.New(healthServer, logger).Register(), fmt.Sprintf(":%s", cfg.GRPC.Port)),
	}

	probeCtx, cancelProbe := context.WithCancel(ctx)
	defer cancelProbe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		prober.Run(probeCtx)
	}()

	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	cancelProbe()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
