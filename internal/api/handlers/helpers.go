package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// generateToken returns a random hex token of n bytes for session handles.
func generateToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("tk_%d", time.Now().UnixNano()%1000000)
	}
	return hex.EncodeToString(b)
}

func atoiParam(c *gin.Context, name string) (int, error) {
	return strconv.Atoi(c.Param(name))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
