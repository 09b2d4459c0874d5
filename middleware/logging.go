package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// LoggingConfig holds logging middleware configuration
type LoggingConfig struct {
	SkipPaths []string // Paths to skip logging (e.g., health checks)
	// StreamPrefixes are long-lived routes; only their completion is logged.
	StreamPrefixes []string
}

// Logging creates a logging middleware
func Logging(logger zerolog.Logger) gin.HandlerFunc {
	return LoggingWithConfig(logger, LoggingConfig{
		SkipPaths:      []string{"/health", "/api/health"},
		StreamPrefixes: []string{"/api/games/feed"},
	})
}

// LoggingWithConfig creates a logging middleware with custom configuration.
// The request logger is attached to the request context, so code below the
// handler can log through zerolog.Ctx with the trace id already set.
func LoggingWithConfig(logger zerolog.Logger, config LoggingConfig) gin.HandlerFunc {
	skipPaths := lo.SliceToMap(config.SkipPaths, func(path string) (string, struct{}) {
		return path, struct{}{}
	})

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, skip := skipPaths[path]; skip {
			c.Next()
			return
		}

		startTime := GetRequestTime(c)
		reqLogger := logger.With().
			Str("trace_id", GetTraceID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("client_ip", c.ClientIP()).
			Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))

		stream := lo.ContainsBy(config.StreamPrefixes, func(prefix string) bool {
			return strings.HasPrefix(path, prefix)
		})
		if !stream {
			reqLogger.Debug().Str("user_agent", c.Request.UserAgent()).Msg("Request started")
		}

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = reqLogger.Error()
		case status >= 400:
			event = reqLogger.Warn()
		default:
			event = reqLogger.Info()
		}

		event.
			Int("status", status).
			Dur("duration", time.Since(startTime)).
			Int("response_size", c.Writer.Size()).
			Msg("Request completed")

		for _, err := range c.Errors {
			reqLogger.Error().
				Err(err.Err).
				Uint64("type", uint64(err.Type)).
				Msg("Request error")
		}
	}
}
