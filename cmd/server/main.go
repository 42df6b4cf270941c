package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fuelease-be/internal/config"
	"fuelease-be/internal/db"
	"fuelease-be/internal/events"
	"fuelease-be/internal/logger"
	"fuelease-be/internal/metrics"
	"fuelease-be/internal/middleware"
	"fuelease-be/internal/order"
	"fuelease-be/internal/payment"
	"fuelease-be/internal/payment/webhook"
	"fuelease-be/internal/transport"
	"fuelease-be/internal/user"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var (
	initDBFunc      = db.NewDatabase
	migrateFunc     = db.Migrate
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

type app struct {
	router    http.Handler
	worker    *order.ReconciliationWorker
	limiter   *middleware.RateLimiter
	publisher events.Publisher
}

func newApp(cfg *config.Config, database *sql.DB, reg *prometheus.Registry) *app {
	m := metrics.New(reg)

	gateway := payment.NewPaystackGateway(payment.PaystackConfig{
		SecretKey: cfg.Paystack.SecretKey,
		BaseURL:   cfg.Paystack.BaseURL,
		Currency:  cfg.Paystack.Currency,
		Timeout:   cfg.Paystack.Timeout,
	}, m)
	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, gateway, publisher, m)

	tokens := user.NewTokenIssuer(cfg.JWTSecret, 0)
	userSvc := user.NewService(user.NewRepository(database), tokens)

	limiter := middleware.NewRateLimiter()

	router := transport.NewRouter(transport.RouterDeps{
		Handler: &transport.Handler{
			Orders:        orderSvc,
			Users:         userSvc,
			TokenTTL:      tokens.TTL(),
			Gateway:       gateway,
			DB:            database,
			Currency:      cfg.Paystack.Currency,
			SecureCookies: cfg.IsProduction(),
		},
		Webhook:  webhook.NewWebhookHandler(orderSvc, payment.NewRepository(database), m),
		Tokens:   tokens,
		Limiter:  limiter,
		Metrics:  m,
		Gatherer: reg,
	})

	worker := order.NewReconciliationWorker(orderRepo, orderSvc, gateway, order.WorkerConfig{
		Interval: cfg.Reconcile.Interval,
		After:    cfg.Reconcile.After,
		Window:   cfg.Reconcile.Window,
		Batch:    cfg.Reconcile.Batch,
	})

	return &app{
		router:    router,
		worker:    worker,
		limiter:   limiter,
		publisher: publisher,
	}
}

func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set; login is disabled and every bearer token is rejected")
	}

	database, err := initDBFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if cfg.MigrateOnStart {
		if err := migrateFunc(database, db.Up); err != nil {
			return fmt.Errorf("migrate on start: %w", err)
		}
		log.Info("database schema up to date")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := newApp(cfg, database, reg)
	defer a.publisher.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.limiter.Cleanup(ctx)
	go a.worker.Run(ctx)

	srv := newServer(cfg, a.router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
		)
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
