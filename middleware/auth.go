package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"jetset/utils"

	"github.com/gin-gonic/gin"
)

// ChatSessionMiddleware authenticates chat and booking requests with the
// stateless session JWT issued by the session endpoint. Revoked tokens are
// rejected via the Redis denylist keyed by token hash.
func ChatSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Recover from unexpected panics.
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		// A signed token may still have been revoked by ending the session.
		ctx := context.Background()
		denyKey := utils.SessionDenyPrefix + utils.HashToken(tokenString)
		sessionCache := utils.GetSessionCacheClient()
		if sessionCache != nil {
			n, cerr := sessionCache.Exists(ctx, denyKey).Result()
			if cerr != nil {
				// Treat a cache outage as a miss rather than locking everyone out.
				log.Printf("WARNING: session denylist check failed: %v", cerr)
			} else if n > 0 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Session revoked",
					"code":  0,
				})
				return
			}
		}

		c.Set("userID", userID)
		c.Next()
	}
}
