package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/openrange/backend/internal/api/handlers"
	"github.com/openrange/backend/internal/config"
	"github.com/openrange/backend/internal/history"
	"github.com/openrange/backend/internal/middleware"
	"github.com/openrange/backend/internal/physics"
	"github.com/openrange/backend/internal/simnet"
	"github.com/openrange/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, engine *physics.Engine, fwd *simnet.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	// CRITICAL: No-cache middleware MUST be first in development
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			// Aggressive no-cache for development
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] Aggressive no-cache headers enabled for all routes")
	}

	store := history.NewStore(db)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check (also available at /api/v1/health)
		v1.GET("/health", handlers.HealthCheck)

		// Operator login
		v1.POST("/auth/login", handlers.Login(db, cfg))

		// Shot ingestion from launch monitors
		v1.POST("/shots", middleware.RequireDeviceKey(cfg), handlers.SubmitShot(store, engine, fwd, cfg))
		v1.GET("/shots/:id", handlers.GetShot(store))

		// Session endpoints
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSession(store, cfg))
			sessions.POST("/:token/end", handlers.EndSession(store))
			sessions.GET("/:token/shots", handlers.GetSessionShots(store))
			sessions.GET("/:token/stats", handlers.GetSessionStats(store))
		}

		// Bay endpoints
		bays := v1.Group("/bays")
		{
			bays.POST("", middleware.RequireOperator(cfg), handlers.CreateBay(store))
			bays.GET("/:bay/ws", middleware.WebSocketCORSCheck(cfg), ws.HandleViewerWS)
			bays.GET("/:bay/last-shot", handlers.GetLatestShot())
		}
	}
}
