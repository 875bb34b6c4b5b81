package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/pellume/provisioner/api/handler"
	"github.com/pellume/provisioner/internal/config"
	"github.com/pellume/provisioner/internal/infrastructure/redisconn"
	"github.com/pellume/provisioner/internal/middleware"
	"github.com/pellume/provisioner/internal/queue"
	"github.com/pellume/provisioner/internal/router"
	"github.com/pellume/provisioner/internal/services/lifecycle"
	"github.com/pellume/provisioner/pkg/httpcontext"
	"github.com/pellume/provisioner/pkg/logger"
	signupUC "github.com/pellume/provisioner/usecase/signup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.ValidateGateway(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  "gateway",
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	conn := redisconn.New(redisconn.Options{
		Role:         "publisher",
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

	publisher := queue.NewPublisher(conn, cfg.Queue.Channel, zapLogger)
	signupUseCase := signupUC.New(publisher, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Signup:      apiHandler.NewSignupHandler(signupUseCase, ctxAdapter, zapLogger),
		Health:      apiHandler.NewHealthHandler(conn, ctxAdapter, zapLogger),
		Diagnostics: apiHandler.NewDiagnosticsHandler(cfg, ctxAdapter, zapLogger),
	}

	apiKeyMiddleware := middleware.APIKey(cfg.Auth.SecretKey, zapLogger)
	r := router.New(handlers, apiKeyMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("gateway started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
