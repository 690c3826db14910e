package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StaffKeyHeader carries the shared secret of store staff clients.
const StaffKeyHeader = "X-Staff-Key"

// StaffKeyRequired admits requests presenting the configured staff key.
func StaffKeyRequired(key string) gin.HandlerFunc {
	expected := []byte(key)
	return func(c *gin.Context) {
		got := c.GetHeader(StaffKeyHeader)
		if got == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
