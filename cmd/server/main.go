package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playbinho/backend/internal/api"
	"github.com/playbinho/backend/internal/config"
	"github.com/playbinho/backend/internal/game"
	"github.com/playbinho/backend/internal/redis"
	"github.com/playbinho/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize Redis (optional; rooms are fully in-process without it)
	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		ws.SetRedisClient(rdb)
		log.Printf("[REDIS] Event mirror enabled")
	} else {
		log.Printf("[REDIS] REDIS_URL not set, event mirror disabled")
	}

	// Wire the game core
	registry := game.NewRegistry()
	engine := game.NewEngine(game.NewStandardField())
	hub := ws.NewHub()
	coordinator := game.NewCoordinator(registry, engine, hub, cfg)

	go hub.Run()
	go coordinator.StartGraceSweeper(context.Background())

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	api.SetupRoutes(router, hub, coordinator, registry, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PlayBinho server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
