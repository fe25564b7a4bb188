// Package main boots the cinema ticket HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biyonik/cinema-ticket-service/internal/config"
	"github.com/biyonik/cinema-ticket-service/internal/controllers"
	"github.com/biyonik/cinema-ticket-service/internal/gateways/payment"
	"github.com/biyonik/cinema-ticket-service/internal/gateways/seating"
	"github.com/biyonik/cinema-ticket-service/internal/listeners"
	"github.com/biyonik/cinema-ticket-service/internal/middleware"
	"github.com/biyonik/cinema-ticket-service/internal/router"
	"github.com/biyonik/cinema-ticket-service/internal/services"
	"github.com/biyonik/cinema-ticket-service/pkg/auth"
	"github.com/biyonik/cinema-ticket-service/pkg/database"
	"github.com/biyonik/cinema-ticket-service/pkg/events"
	"github.com/biyonik/cinema-ticket-service/pkg/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	for _, warning := range cfg.Warnings {
		log.Warn("Config fallback", "detail", warning)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("Service stopped with error", "error", err)
	}
	log.Info("Service stopped")
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DB.DSN, database.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}, log)
	if err != nil {
		return err
	}
	defer db.Close()

	ledger := payment.NewSQLLedger(db, log)
	if err := ledger.Migrate(ctx); err != nil {
		return err
	}

	redisConfig := database.DefaultRedisConfig()
	redisConfig.Host = cfg.Redis.Host
	redisConfig.Port = cfg.Redis.Port
	redisConfig.Password = cfg.Redis.Password
	redisConfig.DB = cfg.Redis.DB

	rc, err := database.NewRedisClient(ctx, redisConfig, log)
	if err != nil {
		return err
	}
	defer rc.Close()

	inventory := seating.NewRedisInventory(rc.Client(), cfg.Seating.Screening, cfg.Seating.Capacity, log)

	dispatcher := events.NewDispatcher(log)
	if cfg.AMQP.Enabled {
		publisher, err := listeners.DialPurchasePublisher(cfg.AMQP.URL, cfg.AMQP.PublishTimeout, log)
		if err != nil {
			return err
		}
		defer publisher.Close()
		dispatcher.Listen(events.EventPurchaseCompleted, publisher)
	}

	pricing, err := cfg.PricingStrategy()
	if err != nil {
		return err
	}
	purchases := services.NewPurchaseService(ledger, inventory, pricing, cfg.PurchaseRules(), log, dispatcher)

	guard := auth.NewClientGuard(cfg.Clients, auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		ExpirationTime: cfg.JWT.Expiration,
	})

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)
		defer limiter.Stop()
	}

	handler := router.Setup(router.Dependencies{
		Purchases: controllers.NewPurchaseController(purchases, log),
		Auth:      controllers.NewAuthController(guard, log),
		Health: controllers.NewHealthController(map[string]controllers.Checker{
			"mysql": db.PingContext,
			"redis": rc.Ping,
		}),
		Verifier: guard,
		Limiter:  limiter,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", "error", err)
	}
	if err := dispatcher.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Warn("Event dispatcher did not drain", "error", err)
	}
	return nil
}
