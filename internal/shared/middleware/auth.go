package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"moments-backend/internal/shared/response"
	"moments-backend/pkg/jwt"
)

const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextEmail  = "email"
)

// AuthMiddleware requires a valid Bearer access token.
// On success userID (uuid.UUID), role and email are set on the context.
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization header")
			c.Abort()
			return
		}

		if !authenticate(c, jwtManager, token) {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuth sets the user when a valid token is present and never aborts.
// Used by public listings that personalise for signed-in viewers.
func OptionalAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			authenticate(c, jwtManager, token)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func authenticate(c *gin.Context, jwtManager *jwt.Manager, token string) bool {
	claims, err := jwtManager.ValidateAccessToken(token)
	if err != nil {
		return false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return false
	}

	c.Set(ContextUserID, userID)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextEmail, claims.Email)
	return true
}

// GetUserID returns the authenticated user, if any.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
