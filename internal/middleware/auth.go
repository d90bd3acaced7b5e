package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}

// Auth resolves the bearer token to a user and stores it on the
// context. Everything behind it can assume CurrentUser returns a
// live, active identity.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
			return
		}

		user, err := verifier.VerifyToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAdmin gates flight management to staff identities.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
			return
		}
		if !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not have permission to perform this action."})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*domain.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}

// SetCurrentUser is exposed for handler tests.
func SetCurrentUser(c *gin.Context, user *domain.User) {
	c.Set(currentUserKey, user)
}
