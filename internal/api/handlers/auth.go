package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/openrange/backend/internal/config"
	"github.com/openrange/backend/internal/history"
	"github.com/openrange/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an operator and issues a short-lived JWT for the
// management endpoints.
func Login(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
			return
		}

		var op models.Operator
		if err := db.Get(&op, `SELECT * FROM operators WHERE username=$1`, req.Username); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		now := time.Now()
		claims := jwt.RegisteredClaims{
			Subject:   op.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.SessionTimeoutMin) * time.Minute)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			log.Printf("[AUTH] Failed to sign token for %s: %v", op.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}

		if _, err := db.Exec(`UPDATE operators SET last_login=NOW() WHERE id=$1`, op.ID); err != nil {
			log.Printf("[AUTH] Failed to update last_login for %s: %v", op.Username, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_at": claims.ExpiresAt.Time,
		})
	}
}

type createBayRequest struct {
	Name      string `json:"name" binding:"required"`
	DeviceKey string `json:"device_key"`
}

// CreateBay registers (or re-keys) a hitting bay. Operator-only.
func CreateBay(store *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}

		deviceKey := req.DeviceKey
		if deviceKey == "" {
			deviceKey = generateToken(16)
		}

		bay, err := store.EnsureBay(req.Name, deviceKey)
		if err != nil {
			log.Printf("[DB] Failed to create bay %s: %v", req.Name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create bay"})
			return
		}

		// The device key is returned exactly once, at provisioning time.
		c.JSON(http.StatusCreated, gin.H{"bay": bay, "device_key": deviceKey})
	}
}
