package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/pellume/provisioner/internal/config"
	"github.com/pellume/provisioner/internal/infrastructure/redisconn"
	"github.com/pellume/provisioner/internal/queue"
	"github.com/pellume/provisioner/internal/services/lifecycle"
	"github.com/pellume/provisioner/pkg/logger"
	"github.com/pellume/provisioner/repository/firestore"
	"github.com/pellume/provisioner/repository/googleauth"
	"github.com/pellume/provisioner/repository/googleidentity"
	"github.com/pellume/provisioner/repository/smtpmail"
	provisionUC "github.com/pellume/provisioner/usecase/provision"
)

const profileCollection = "users"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.ValidateWorker(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  "worker",
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	creds, err := googleauth.ParseCredentials(cfg.Google.CredentialsJSON)
	if err != nil {
		zapLogger.Fatal("google credentials invalid", zap.Error(err))
	}
	tokens, err := googleauth.NewTokenSource(creds,
		[]string{googleidentity.Scope, firestore.Scope},
		cfg.Google.RequestTimeout)
	if err != nil {
		zapLogger.Fatal("google token source failed", zap.Error(err))
	}

	identities := googleidentity.NewClient(tokens, creds.ProjectID, cfg.Google.RequestTimeout)
	profiles := firestore.NewClient(tokens, creds.ProjectID, profileCollection, cfg.Google.RequestTimeout)
	mailer := smtpmail.NewSender(smtpmail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	service := provisionUC.New(identities, profiles, mailer, zapLogger)

	conn := redisconn.New(redisconn.Options{
		Role:         "subscriber",
		URL:          cfg.Redis.URL,
		RetryDelay:   cfg.Redis.RetryDelay,
		PingInterval: cfg.Redis.PingInterval,
	}, zapLogger)

	// Only the initial attempt is fatal; once running, broker loss is
	// handled by the manager's retry loop.
	if err := conn.Connect(appCtx); err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	go conn.Run(appCtx)
	manager.Register("redis", func(ctx context.Context) error {
		return conn.Close()
	})

	subscriber := queue.NewSubscriber(conn, cfg.Queue.Channel, service.Handle, zapLogger)
	go subscriber.Run(appCtx)

	zapLogger.Info("worker started", zap.String("channel", cfg.Queue.Channel))

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
