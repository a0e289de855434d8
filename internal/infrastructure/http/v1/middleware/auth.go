package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"barkeep/internal/core/apperror"
)

// SessionValidator validates session tokens issued at operator login.
type SessionValidator interface {
	Validate(tokenString string) (string, error)
}

// Auth validates the session token and stores the operator name in the
// gin context.
func Auth(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		operator, err := validator.Validate(parts[1])
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set("operator", operator)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
