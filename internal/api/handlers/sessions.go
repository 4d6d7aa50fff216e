package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openrange/backend/internal/config"
	"github.com/openrange/backend/internal/history"
)

type createSessionRequest struct {
	Bay        string `json:"bay" binding:"required"`
	PlayerName string `json:"player_name" binding:"required"`
}

// CreateSession opens a practice session at a bay and returns its token. The
// token is what the launch monitor attaches to each shot.
func CreateSession(store *history.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bay and player_name required"})
			return
		}

		bay, err := store.GetBayByName(req.Bay)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "bay not found"})
			return
		}
		if !bay.IsActive {
			c.JSON(http.StatusConflict, gin.H{"error": "bay is not active"})
			return
		}

		expiresAt := time.Now().Add(time.Duration(cfg.SessionExpiryMinutes) * time.Minute)
		session, err := store.CreateSession(bay.ID, req.PlayerName, generateToken(16), expiresAt)
		if err != nil {
			log.Printf("[DB] Failed to create session at bay %s: %v", bay.Name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"session": session, "bay": bay.Name})
	}
}

// EndSession closes a session so further shots against its token are refused.
func EndSession(store *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if err := store.EndSession(token); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "session not found or already ended"})
				return
			}
			log.Printf("[DB] Failed to end session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ended": true})
	}
}

// GetSessionShots lists a session's shots newest first, without trajectories.
func GetSessionShots(store *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.GetSessionByToken(c.Param("token"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		shots, err := store.ListShotsBySession(session.ID, limit)
		if err != nil {
			log.Printf("[DB] Failed to list shots for session %d: %v", session.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list shots"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"session": session, "shots": shots})
	}
}

// GetSessionStats aggregates carry, apex and offset over a session's shots.
// Truncated shots are excluded from the averages.
func GetSessionStats(store *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := store.GetSessionByToken(c.Param("token"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		stats, err := store.SessionStats(session.ID)
		if err != nil {
			log.Printf("[DB] Failed to compute stats for session %d: %v", session.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"session": session, "stats": stats})
	}
}
