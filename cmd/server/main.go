package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bistro_backend/internal/api"
	"bistro_backend/internal/auth"
	"bistro_backend/internal/config"
	"bistro_backend/internal/domain"
	"bistro_backend/internal/logging"
	"bistro_backend/internal/notify"
	"bistro_backend/internal/payments"
	"bistro_backend/internal/store"
)

const (
	mongoConnectTimeout    = 10 * time.Second
	mongoIndexTimeout      = 5 * time.Second
	mongoDisconnectTimeout = 5 * time.Second
	httpShutdownTimeout    = 10 * time.Second
)

func main() {
	configOnly := flag.Bool("config-only", false, "load and print configuration then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("configuration error", logging.Fields{"error": err})
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg)
	if err != nil {
		logging.Error("logger setup error", logging.Fields{"error": err})
		fmt.Fprintf(os.Stderr, "logger setup error: %v\n", err)
		os.Exit(1)
	}

	if *configOnly {
		logging.Info("configuration check", logging.Fields{"event": "config_only"})
		fmt.Println("configuration check: ok")
		fmt.Println(config.FormatRedacted(cfg))
		return
	}

	logger.WithFields(logging.Fields{
		"event":    "startup",
		"mongo_db": cfg.MongoDB,
		"port":     cfg.HTTPPort,
	}).Info("configuration loaded")

	connectCtx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	mongoManager, err := store.NewManager(connectCtx, cfg)
	cancel()
	if err != nil {
		logger.WithError(err).Error("mongo connection error")
		fmt.Fprintf(os.Stderr, "mongo connection error: %v\n", err)
		os.Exit(1)
	}

	logger.WithField("event", "mongo_connect").Info("connected to mongo")

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), mongoIndexTimeout)
	if err := mongoManager.EnsureBaseIndexes(indexCtx); err != nil {
		cancelIndexes()
		logger.WithError(err).Error("mongo index setup error")
		fmt.Fprintf(os.Stderr, "mongo index setup error: %v\n", err)
		os.Exit(1)
	}
	cancelIndexes()

	logger.WithField("event", "mongo_indexes").Info("ensured base mongo indexes")

	tokenManager, err := auth.NewManager(cfg.TokenSecret)
	if err != nil {
		logger.WithError(err).Error("token manager setup error")
		fmt.Fprintf(os.Stderr, "token manager setup error: %v\n", err)
		os.Exit(1)
	}

	stripeClient, err := payments.NewStripeClient(cfg.StripeSecret)
	if err != nil {
		logger.WithError(err).Error("stripe client setup error")
		fmt.Fprintf(os.Stderr, "stripe client setup error: %v\n", err)
		os.Exit(1)
	}

	userRepository := domain.NewUserRepository(mongoManager.Users())
	menuRepository := domain.NewMenuRepository(mongoManager.Menu())
	cartRepository := domain.NewCartRepository(mongoManager.Carts())
	reviewRepository := domain.NewReviewRepository(mongoManager.Reviews())
	paymentRepository := domain.NewPaymentRepository(mongoManager.Payments())
	statsProvider := store.NewStatsProvider(mongoManager.Users(), mongoManager.Menu(), mongoManager.Payments())

	options := []api.Option{
		api.WithUserStore(userRepository),
		api.WithMenuStore(menuRepository),
		api.WithCartStore(cartRepository),
		api.WithReviewStore(reviewRepository),
		api.WithPaymentStore(paymentRepository),
		api.WithStatsSource(statsProvider),
		api.WithIntentCreator(stripeClient),
		api.WithPinger(mongoManager),
	}

	if cfg.NotificationsEnabled() {
		notifier, err := notify.NewNotifier(cfg, logger)
		if err != nil {
			logger.WithError(err).Error("notifier setup error")
			fmt.Fprintf(os.Stderr, "notifier setup error: %v\n", err)
			os.Exit(1)
		}
		options = append(options, api.WithReceiptNotifier(notifier))
		logger.WithField("event", "notifier_ready").Info("payment receipt notifier enabled")
	}

	server, err := api.NewServer(cfg, tokenManager, logger, options...)
	if err != nil {
		logger.WithError(err).Error("server setup error")
		fmt.Fprintf(os.Stderr, "server setup error: %v\n", err)
		os.Exit(1)
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Listen(cfg.HTTPPort)
	}()

	select {
	case <-signalCtx.Done():
		logger.WithField("event", "shutdown_signal").Info("received termination signal, stopping http server")
	case err := <-serveErr:
		if err != nil {
			logger.WithError(err).Error("http server error")
		} else {
			logger.WithField("event", "http_stopped_early").Warn("http server stopped before shutdown signal")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), httpShutdownTimeout)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http shutdown error")
	} else {
		logger.WithField("event", "http_shutdown").Info("http server stopped")
	}
	cancelShutdown()

	disconnectCtx, cancelDisconnect := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	if err := mongoManager.Close(disconnectCtx); err != nil {
		logger.WithError(err).Error("mongo disconnect error")
	} else {
		logger.WithField("event", "mongo_disconnect").Info("mongo client disconnected")
	}
	cancelDisconnect()

	logger.WithField("event", "shutdown_complete").Info("shutdown complete")
}
