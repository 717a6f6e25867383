package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/notes-checkout/internal/application"
	"github.com/DanielPopoola/notes-checkout/internal/application/services"
	"github.com/DanielPopoola/notes-checkout/internal/config"
	"github.com/DanielPopoola/notes-checkout/internal/infrastructure/gateway"
	"github.com/DanielPopoola/notes-checkout/internal/infrastructure/mailer"
	"github.com/DanielPopoola/notes-checkout/internal/infrastructure/persistence/memory"
	"github.com/DanielPopoola/notes-checkout/internal/infrastructure/ratelimit"
	"github.com/DanielPopoola/notes-checkout/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/notes-checkout/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/notes-checkout/internal/worker"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting checkout service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"correlation_mode", cfg.Correlation.Mode,
		"rate_limit_store", cfg.RateLimit.Store,
	)

	if _, err := os.Stat(cfg.Mailer.AttachmentPath); err != nil {
		logger.Warn("attachment not readable, confirmation emails will fail",
			"path", cfg.Mailer.AttachmentPath,
			"error", err)
	}

	sweeper := worker.NewSweepWorker(cfg.Worker.SweepInterval, logger)

	var correlator application.OrderCorrelator
	switch cfg.Correlation.Mode {
	case config.CorrelationKeyed:
		store := memory.NewOrderStore(cfg.Correlation.OrderTTL)
		sweeper.Add("orders", store)
		correlator = store
	default:
		correlator = memory.NewLastOrderSlot()
	}

	var limiter middleware.RateLimitStore
	switch cfg.RateLimit.Store {
	case config.RateLimitStoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := ratelimit.NewRedisClient(ctx, cfg.RateLimit.RedisAddr)
		cancel()
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		limiter = ratelimit.NewRedisStore(client, cfg.RateLimit.Window)
	default:
		store := ratelimit.NewMemoryStore(cfg.RateLimit.Window)
		sweeper.Add("rate_limit", store)
		limiter = store
	}

	smtpClient, err := mailer.NewSMTPClient(cfg.Mailer)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	gatewayClient := gateway.NewRazorpayClient(cfg.Gateway)
	notifier := mailer.NewMailer(smtpClient, cfg.Mailer, logger)

	orderService := services.NewOrderService(gatewayClient, correlator, cfg.Order.Currency, cfg.Order.Receipt, logger)
	verificationService := services.NewVerificationService(correlator, notifier, cfg.Gateway.KeySecret, logger)

	h := handlers.NewHandlers(
		orderService,
		verificationService,
		cfg.Correlation.Mode == config.CorrelationKeyed,
		logger,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Timeout(cfg.Server.RequestTimeout)(handler)
	handler = middleware.RateLimit(limiter, cfg.RateLimit.Max, logger)(handler)
	handler = middleware.Logging(logger)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go sweeper.Start(workerCtx)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
	return nil
}
