package main

//go:generate swag init --dir ../../ --generalInfo internal/api/http/internal/v1/handler.go --instanceName internal --output ../../docs --parseInternal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apiHttp "github.com/btech-hub/backend/internal/api/http"
	"github.com/btech-hub/backend/internal/cache"
	"github.com/btech-hub/backend/internal/config"
	"github.com/btech-hub/backend/internal/db"
	"github.com/btech-hub/backend/internal/queue/client"
	"github.com/btech-hub/backend/internal/repository"
	"github.com/btech-hub/backend/internal/server"
	"github.com/btech-hub/backend/internal/service"
	"github.com/btech-hub/backend/pkg/auth"
	emailProvider "github.com/btech-hub/backend/pkg/email"
	"github.com/btech-hub/backend/pkg/email/smtp"
	"github.com/btech-hub/backend/pkg/hash"
	"github.com/btech-hub/backend/pkg/logger"
	"github.com/btech-hub/backend/pkg/otp"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	// Dependencies
	appLogger := logger.SetupLogger(cfg.Env, cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	appLogger.Info("starting backend api", zap.String("env", cfg.Env))
	appLogger.Debug("debug messages are enabled")

	if cfg.Env == config.EnvProd && cfg.OTP.DebugCode != config.DebugCodeNever {
		appLogger.Warn("verification codes may be returned in responses", zap.String("policy", cfg.OTP.DebugCode))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Init database
	dbMySQL, err := db.New(ctx, cfg.Database)
	if err != nil {
		appLogger.Error("mysql connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			appLogger.Error("error when closing", zap.Error(err))
		}
	}()
	appLogger.Info("mysql connection done")

	redisClient, err := cache.NewRedis(ctx, cfg.Cache)
	if err != nil {
		appLogger.Error("redis connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer redisClient.Close()
	appLogger.Info("redis connection done")

	var emailSender emailProvider.Sender
	if cfg.Email.Enabled {
		emailSender, err = smtp.NewSMTPSender(cfg.SMTP.From, cfg.Email.SenderName, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
		if err != nil {
			appLogger.Error("smtp sender creation failed", zap.Error(err))
			os.Exit(1)
		}
	} else {
		appLogger.Warn("email delivery disabled, codes are only stored")
	}

	var retryQueue client.Enqueuer
	if cfg.Queue.Enabled {
		asynqClient := client.New(cfg.Cache)
		defer asynqClient.Close()
		retryQueue = asynqClient
	}

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	if err != nil {
		appLogger.Error("auth manager creation err", zap.Error(err))
		os.Exit(1)
	}

	// Services, Repos & API Handlers
	repos := repository.NewRepositories(dbMySQL, redisClient)
	services := service.NewServices(service.Deps{
		Config:       cfg,
		Hasher:       hash.NewBcryptHasher(bcrypt.DefaultCost),
		TokenManager: tokenManager,
		OtpGenerator: otp.NewNumericGenerator(cfg.Auth.VerificationCodeLength),
		Notifier:     service.NewEmailNotifier(emailSender, cfg.Email, cfg.OTP.TTL, retryQueue),
		Repos:        repos,
	})
	handlers := apiHttp.NewHandlers(services, tokenManager, cfg)

	// HTTP Server
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	srv := server.NewServer(cfg, handlers.Init(appCtx, cfg))
	go func() {
		if err := srv.Run(); err != nil {
			appLogger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	appLogger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	shutdownCtx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(shutdownCtx); err != nil {
		appLogger.Error("failed to stop server", zap.Error(err))
	}
	stopApp()

	appLogger.Info("app stopped")
}
