package api

import (
	"wallet_registry/internal/config"     // Application configuration
	"wallet_registry/internal/middleware" // Request logging and auth

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// NewRouter builds the gin engine serving the wallet API
func NewRouter(cfg *config.Config, svc WalletService, db Pinger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	r.GET("/health", HealthHandler(db))

	group := r.Group(cfg.APIPrefix)
	if cfg.AuthRequired {
		// Protect wallet routes with JWT middleware
		group.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	}
	RegisterWalletRoutes(group, svc)
	return r
}
