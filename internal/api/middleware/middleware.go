package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"seoulmate/backend/internal/service"
)

const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// AuthRequired validates the bearer token and injects the session into
// the gin context. Protected operations fail UNAUTHENTICATED here before
// any business logic runs. The token may also arrive as a query
// parameter because EventSource and browser websockets cannot set
// headers.
func AuthRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if t := c.Query("token"); t != "" {
			tokenString = t
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":  "UNAUTHENTICATED",
				"error": "authorization token missing",
			})
			return
		}

		session, err := auth.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":  "UNAUTHENTICATED",
				"error": "invalid token or expired",
			})
			return
		}

		c.Set(ContextUserID, session.UserID)
		c.Set(ContextRole, string(session.Role))
		c.Next()
	}
}

// Cors enables cross-origin requests for the browser frontend.
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthRequired.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
