package api

import (
	"context"  // Health check deadline
	"net/http" // HTTP status codes
	"time"     // Health check deadline

	"github.com/gin-gonic/gin" // Gin web framework
)

// Pinger reports whether the backing database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterWalletRoutes mounts the wallet resource on group
func RegisterWalletRoutes(group *gin.RouterGroup, svc WalletService) {
	wallets := group.Group("/wallets")
	wallets.GET("/", ListWalletsHandler(svc))         // List wallets, optional user_id filter
	wallets.POST("/", CreateWalletHandler(svc))       // Create wallet
	wallets.GET("/:id/", GetWalletHandler(svc))       // Retrieve wallet
	wallets.PUT("/:id/", UpdateWalletHandler(svc))    // Full update
	wallets.PATCH("/:id/", PatchWalletHandler(svc))   // Partial update
	wallets.DELETE("/:id/", DeleteWalletHandler(svc)) // Delete wallet
}

// HealthHandler answers 200 while the database responds
func HealthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
