package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/gwent-backend/controllers"
	"github.com/bellapacxx/gwent-backend/services"
)

// SetupRoutes registers the HTTP surface. ctx bounds websocket sessions.
func SetupRoutes(ctx context.Context, r *gin.Engine, co *services.Coordinator) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	api := r.Group("/api")

	// ----------------------
	// Session routes
	// ----------------------
	api.GET("/session", controllers.SessionStatus(co)) // Seats, readiness, match progress

	// ----------------------
	// Catalog routes
	// ----------------------
	api.GET("/cards", controllers.ListCards(co.Catalog()))            // All card definitions
	api.GET("/cards/:faction", controllers.FactionDeck(co.Catalog())) // Starter deck + leader

	// WebSocket envelope stream, same protocol as the TCP listener
	r.GET("/ws", services.HandleWebSocket(ctx, co))
}
