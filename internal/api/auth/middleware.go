package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arturocg96/EduTrackAPI/internal/api/response"
	"github.com/arturocg96/EduTrackAPI/internal/model"
	"github.com/arturocg96/EduTrackAPI/internal/pkg/jwt"
)

// Context keys set by AuthMiddleware
const (
	ContextUsername = "username"
	ContextRole     = "role"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware validates JWT token
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header missing")
			return
		}

		token, err := jwt.ExtractTokenFromHeader(authHeader)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				response.Error(c, http.StatusUnauthorized, "Token has expired")
			} else {
				response.Error(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		c.Set(ContextUsername, claims.Name)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole lets the request through only when the token role is one of
// roles. It must run after AuthMiddleware.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, r := range roles {
			if role == string(r) {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// AdminMiddleware restricts a route to administrators
func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin)
}
