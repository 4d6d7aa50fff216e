package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/openrange/backend/internal/config"
)

// RequireOperator validates the Bearer JWT issued by the login endpoint and
// stores the operator username in the context.
func RequireOperator(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("operator", claims.Subject)
		c.Next()
	}
}

// RequireDeviceKey gates the shot ingestion endpoint behind the shared
// device key launch monitors are provisioned with. Per-bay keys are checked
// afterwards against the bays table.
func RequireDeviceKey(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.DeviceAPIKey == "" {
			// Not configured: rely on per-bay device keys only.
			c.Next()
			return
		}
		if c.GetHeader("X-Device-Key") != cfg.DeviceAPIKey {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid device key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
