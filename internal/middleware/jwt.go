package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devevent/backend/internal/auth"
	"github.com/devevent/backend/pkg/response"
)

const (
	// ContextOrganizer is the key for the organizer name in gin context.
	ContextOrganizer = "organizer"
	// ContextRole is the key for the token role in gin context.
	ContextRole = "role"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// JWT returns a middleware that validates the bearer token and sets organizer claims in context.
func JWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}
		claims, err := validator.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextOrganizer, claims.Organizer)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}
