package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kidusabdula/oskaz-storefront-api/internal/api"
	"github.com/kidusabdula/oskaz-storefront-api/internal/cart"
	"github.com/kidusabdula/oskaz-storefront-api/internal/config"
	"github.com/kidusabdula/oskaz-storefront-api/internal/erpnext"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting storefront API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Cart snapshots live in Redis; fall back to process memory when Redis
	// is unreachable so the storefront still works, just without durable
	// carts.
	var snapshots cart.Snapshotter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, cart snapshots will not survive restarts", zap.Error(err))
		snapshots = cart.NewMemorySnapshotter()
	} else {
		snapshots = cart.NewRedisSnapshotter(redisClient)
	}
	cancelPing()
	defer redisClient.Close()

	carts := cart.NewStore(snapshots, logger)
	carts.Subscribe(func(event cart.Event) {
		logger.Info("Cart notification",
			zap.String("type", string(event.Type)),
			zap.String("item", event.Item.Name),
			zap.String("message", event.Message),
		)
	})

	// ERPNext gateway
	erp := erpnext.NewClient(cfg.ERPNext, logger)

	// Initialize router
	router := api.NewRouter(cfg, erp, carts, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
