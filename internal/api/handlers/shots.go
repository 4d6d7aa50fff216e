package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openrange/backend/internal/config"
	"github.com/openrange/backend/internal/device"
	"github.com/openrange/backend/internal/history"
	"github.com/openrange/backend/internal/models"
	"github.com/openrange/backend/internal/physics"
	"github.com/openrange/backend/internal/simnet"
	"github.com/openrange/backend/internal/ws"
)

// ShotRequest is what a launch monitor posts after a swing: the raw device
// fields plus optional environment readings.
type ShotRequest struct {
	SessionToken string             `json:"session_token" binding:"required"`
	Club         string             `json:"club,omitempty"`
	Fields       map[string]string  `json:"fields" binding:"required"`
	Conditions   physics.Conditions `json:"conditions"`
}

const (
	ModePhysics     = "physics"
	ModePassthrough = "passthrough"
	ModeBoth        = "both"
)

// SubmitShot ingests one shot from a launch monitor. Depending on the
// configured forward mode it runs the flight engine, forwards the raw
// measurement to the external simulator, or both.
func SubmitShot(store *history.Store, engine *physics.Engine, fwd *simnet.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ShotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_token and fields required"})
			return
		}

		bay, err := store.GetBayByDeviceKey(c.GetHeader("X-Device-Key"))
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "unknown device key"})
			return
		}

		session, err := store.GetSessionByToken(req.SessionToken)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		if session.BayID != bay.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "session belongs to another bay"})
			return
		}
		if session.EndedAt.Valid || time.Now().After(session.ExpiresAt) {
			c.JSON(http.StatusGone, gin.H{"error": "session has ended"})
			return
		}

		// The device boundary converts mph/degrees/rpm to SI before the
		// engine sees anything.
		launch, err := device.ParseLaunch(req.Fields)
		if err != nil {
			var invalid *physics.InvalidInputError
			if errors.As(err, &invalid) {
				c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		mode := cfg.ForwardMode
		if mode != ModePassthrough && mode != ModeBoth {
			mode = ModePhysics
		}

		if mode == ModePassthrough || mode == ModeBoth {
			fwd.ForwardMeasurement(bay.Name, req.Fields)
		}

		shot := &models.Shot{
			SessionID:   session.ID,
			BayID:       bay.ID,
			Mode:        mode,
			Club:        req.Club,
			BallSpeed:   launch.Speed,
			LaunchAngle: launch.VerticalAngle,
			Azimuth:     launch.Azimuth,
			Backspin:    launch.Backspin,
			Sidespin:    launch.Sidespin,
		}

		if mode == ModePassthrough {
			// Engine not invoked; record the measurement only.
			if err := store.InsertShot(shot); err != nil {
				log.Printf("[DB] Failed to record passthrough shot for session %d: %v", session.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record shot"})
				return
			}
			c.JSON(http.StatusAccepted, gin.H{"shot": shot, "forwarded": true})
			return
		}

		result, err := engine.Simulate(launch, req.Conditions)
		if err != nil {
			var invalid *physics.InvalidInputError
			if errors.As(err, &invalid) {
				c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
				return
			}
			var truncated *physics.SimulationTruncatedError
			if !errors.As(err, &truncated) {
				log.Printf("[PHYSICS] Simulate failed for session %d: %v", session.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "simulation failed"})
				return
			}
			// Truncated is a soft failure: keep the partial result, flagged.
			log.Printf("[PHYSICS] %v (bay=%s)", truncated, bay.Name)
		}

		shot.Carry = result.Summary.Carry
		shot.Apex = result.Summary.Apex
		shot.FlightTime = result.Summary.FlightTime
		shot.LateralOffset = result.Summary.LateralOffset
		shot.Truncated = result.Truncated

		if trajectory, err := json.Marshal(result.Trajectory); err == nil {
			shot.Trajectory = trajectory
		} else {
			log.Printf("[DB] Failed to marshal trajectory for session %d: %v", session.ID, err)
		}

		if err := store.InsertShot(shot); err != nil {
			log.Printf("[DB] Failed to record shot for session %d: %v", session.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record shot"})
			return
		}

		// Fan the completed shot out to the bay's viewers. The trajectory is
		// one finite message; viewers pace the replay themselves.
		ws.PublishShotEvent(c.Request.Context(), bay.Name, gin.H{
			"type":       "shot",
			"shot_id":    shot.ID,
			"bay":        bay.Name,
			"club":       shot.Club,
			"summary":    result.Summary,
			"truncated":  result.Truncated,
			"trajectory": result.Trajectory,
		})

		if mode == ModeBoth {
			fwd.ForwardResult(bay.Name, launch, result)
		}

		c.Header("X-Shot-ID", itoa(shot.ID))
		c.JSON(http.StatusCreated, gin.H{"shot": shot, "result": result})
	}
}

// GetLatestShot returns the last cached shot for a bay so viewers joining
// mid-session have something to render before the next swing.
func GetLatestShot() gin.HandlerFunc {
	return func(c *gin.Context) {
		shot, err := ws.LatestShot(c.Request.Context(), c.Param("bay"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no recent shot for bay"})
			return
		}
		c.Data(http.StatusOK, "application/json", shot)
	}
}

// GetShot returns a stored shot including its trajectory payload.
func GetShot(store *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := atoiParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shot id"})
			return
		}

		shot, err := store.GetShot(id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "shot not found"})
				return
			}
			log.Printf("[DB] Failed to load shot %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load shot"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"shot": shot})
	}
}
