// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements optional bearer-token authentication. When a token is
// configured, every request must carry "Authorization: Bearer <token>"; an
// absent or mismatched credential is rejected with the
// INVALID_REQUEST_SIGNATURE envelope. An empty configured token disables the
// check entirely (local/test deployments).
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-users-api/internal/http/apierr"
)

// BearerAuth returns a middleware enforcing a static bearer credential.
// Comparison is constant-time to avoid timing side channels.
func BearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		supplied, isBearer := strings.CutPrefix(header, "Bearer ")
		if !isBearer || supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierr.New(
				http.StatusUnauthorized, apierr.CodeInvalidRequestSignature,
				"Unauthorized Request.", nil))
			return
		}
		SetTrackingIDs(c, map[string]string{"auth": "bearer"})
		c.Next()
	}
}
