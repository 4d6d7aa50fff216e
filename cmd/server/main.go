package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/openrange/backend/internal/api"
	"github.com/openrange/backend/internal/config"
	"github.com/openrange/backend/internal/database"
	"github.com/openrange/backend/internal/migrations"
	"github.com/openrange/backend/internal/physics"
	"github.com/openrange/backend/internal/redis"
	"github.com/openrange/backend/internal/simnet"
	"github.com/openrange/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	// Flight engine with range-specific tee height
	engineCfg := physics.DefaultConfig()
	engineCfg.TeeHeight = cfg.TeeHeightM
	engine := physics.NewEngine(engineCfg)
	log.Printf("[PHYSICS] Flight engine ready (dt=%gs, tee=%gm, mode=%s)",
		engineCfg.DT, engineCfg.TeeHeight, cfg.ForwardMode)

	// Simulator forwarding client (if configured)
	fwd := simnet.NewClient(cfg.SimulatorURL)
	if fwd != nil {
		fwd.Start(context.Background())
		log.Printf("[SIMNET] Forwarding to simulator at %s (mode=%s)", cfg.SimulatorURL, cfg.ForwardMode)
	} else if cfg.ForwardMode != "physics" {
		log.Printf("[SIMNET] FORWARD_MODE=%s but SIMULATOR_URL not set - forwarding disabled", cfg.ForwardMode)
	}

	// Wire Redis and start shot event subscriber in WS layer
	ws.SetRedisClient(rdb)
	ws.StartShotEventSubscriber(context.Background())

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, db, engine, fwd, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting OpenRange server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
