package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/types"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Recovery creates a recovery middleware that recovers from panics and
// answers with the standard {"error": ...} body.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				traceID := GetTraceID(c)

				logger.Error().
					Str("trace_id", traceID).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("client_ip", c.ClientIP()).
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Msg("Panic recovered")

				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{
					Error:   "Internal server error",
					TraceID: traceID,
				})
			}
		}()

		c.Next()
	}
}
