package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"barkeep/pkg/logger"
)

// HeaderRequestID carries the request identifier end to end.
const HeaderRequestID = "X-Request-ID"

// RequestID attaches a request identifier to the context for log
// correlation. The desktop shell may supply its own; otherwise one is
// generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}
