package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/titipin/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Payment
// proof uploads are the largest expected payloads.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest,
					"Request body exceeds maximum allowed size", GetRequestID(c)))
			return
		}

		// Streaming requests without Content-Length are still capped
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
