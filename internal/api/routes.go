package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playbinho/backend/internal/api/handlers"
	"github.com/playbinho/backend/internal/config"
	"github.com/playbinho/backend/internal/game"
	"github.com/playbinho/backend/internal/middleware"
	"github.com/playbinho/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, hub *ws.Hub, coord *game.Coordinator, registry *game.Registry, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		rooms := v1.Group("/rooms")
		{
			rooms.POST("", handlers.CreateRoom(registry))
			rooms.GET("/stats", handlers.RoomStats(registry))
		}

		v1.GET("/ws", ws.HandleWebSocket(hub, coord))
	}
}
