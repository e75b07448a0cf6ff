package main

import (
	"context"                          // context package is needed for Redis and shutdown
	"errors"                           // Server close detection
	"net/http"                         // HTTP server
	"os"                               // Signals
	"os/signal"                        // Signal handling
	"syscall"                          // SIGTERM
	"time"                             // Shutdown deadline
	"wallet_registry/internal/api"     // Custom package for API handlers
	"wallet_registry/internal/config"  // Custom package for configuration
	"wallet_registry/internal/db"      // Custom package for the wallet store
	"wallet_registry/internal/service" // Custom package for wallet access rules
	"wallet_registry/internal/utils"   // Custom package for the Redis cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/rs/cors"           // CORS handling
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"golang.org/x/sync/errgroup"   // Server lifecycle
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode) // Set Mode to Release if in production
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	store := db.NewWalletStore(gdb)

	var opts []service.Option
	if cfg.RedisAddr != "" {
		// Setup Redis client
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		defer redisClient.Close()
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		opts = append(opts, service.WithCache(utils.NewRedisCache(redisClient), cfg.CacheTTL))
	} else {
		logrus.Info("REDIS_ADDR not set, wallet cache disabled")
	}
	if cfg.AuthRequired && cfg.JWTSecret == "" {
		logrus.Fatal("AUTH_REQUIRED is set but JWT_SECRET is empty")
	}

	svc := service.NewWalletService(store, opts...)
	router := api.NewRouter(cfg, svc, store)

	// CORS wraps the whole engine so preflight requests never reach gin
	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}).Handler(router)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logrus.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
