package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-updates/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = logger.RequestIDField
)

// RequestID propagates the caller's X-Request-ID or assigns a new one and
// attaches it to the request-scoped logger and to the request context, where
// logger.ContextHook picks it up for events logged with Ctx.
func RequestID(l zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		reqLogger := l.With().Str(requestIDKey, id).Logger()
		ctx := logger.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(reqLogger.WithContext(ctx))
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
