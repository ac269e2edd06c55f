package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger logs every request, recovers from panics and reports
// server-side failures with enough context to trace them.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				log.Error().
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("client_ip", c.ClientIP()).
					Int64("user_id", c.GetInt64("user_id")).
					Str("request_id", requestID(c)).
					Dur("latency", time.Since(start)).
					Err(err).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "Internal Server Error",
					},
				})
				c.Abort()
				return
			}

			ev := log.Info()
			if c.Writer.Status() >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev.
				Int("status", c.Writer.Status()).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("query", c.Request.URL.RawQuery).
				Str("client_ip", c.ClientIP()).
				Int64("user_id", c.GetInt64("user_id")).
				Str("role", c.GetString("role")).
				Str("request_id", requestID(c)).
				Dur("latency", time.Since(start))

			for _, err := range c.Errors {
				ev = ev.Str("error", err.Error())
			}
			ev.Msg("request")
		}()

		c.Next()
	}
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
