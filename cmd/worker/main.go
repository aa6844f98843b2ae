package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/btech-hub/backend/internal/cache"
	"github.com/btech-hub/backend/internal/config"
	"github.com/btech-hub/backend/internal/db"
	"github.com/btech-hub/backend/internal/queue/asynqserver"
	"github.com/btech-hub/backend/internal/repository"
	"github.com/btech-hub/backend/internal/service"
	"github.com/btech-hub/backend/internal/worker"
	"github.com/btech-hub/backend/pkg/auth"
	emailProvider "github.com/btech-hub/backend/pkg/email"
	"github.com/btech-hub/backend/pkg/email/smtp"
	"github.com/btech-hub/backend/pkg/hash"
	"github.com/btech-hub/backend/pkg/logger"
	"github.com/btech-hub/backend/pkg/otp"
)

func main() {
	cfg := config.MustLoad()

	appLogger := logger.SetupLogger(cfg.Env, cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	appLogger.Info("starting worker", zap.String("env", cfg.Env))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbMySQL, err := db.New(ctx, cfg.Database)
	if err != nil {
		appLogger.Error("mysql connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer dbMySQL.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Cache)
	if err != nil {
		appLogger.Error("redis connect problem", zap.Error(err))
		os.Exit(1)
	}
	defer redisClient.Close()

	var emailSender emailProvider.Sender
	if cfg.Email.Enabled {
		emailSender, err = smtp.NewSMTPSender(cfg.SMTP.From, cfg.Email.SenderName, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
		if err != nil {
			appLogger.Error("smtp sender creation failed", zap.Error(err))
			os.Exit(1)
		}
	}

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	if err != nil {
		appLogger.Error("auth manager creation err", zap.Error(err))
		os.Exit(1)
	}

	// retries are delivered directly, a failing retry is rescheduled by asynq itself
	notifier := service.NewEmailNotifier(emailSender, cfg.Email, cfg.OTP.TTL, nil)

	services := service.NewServices(service.Deps{
		Config:       cfg,
		Hasher:       hash.NewBcryptHasher(bcrypt.DefaultCost),
		TokenManager: tokenManager,
		OtpGenerator: otp.NewNumericGenerator(cfg.Auth.VerificationCodeLength),
		Notifier:     notifier,
		Repos:        repository.NewRepositories(dbMySQL, redisClient),
	})

	workers := worker.NewWorkers(worker.Deps{
		Services:  services,
		Deliverer: notifier,
	})

	srv, mux := asynqserver.New(cfg, workers)
	if err := srv.Start(mux); err != nil {
		appLogger.Error("asynq server start failed", zap.Error(err))
		os.Exit(1)
	}

	scheduler, err := asynqserver.NewScheduler(cfg)
	if err != nil {
		appLogger.Error("asynq scheduler creation failed", zap.Error(err))
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		appLogger.Error("asynq scheduler start failed", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("worker started", zap.Duration("purge_interval", cfg.Queue.PurgeInterval))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	scheduler.Shutdown()
	srv.Shutdown()

	appLogger.Info("worker stopped")
}
