package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/bkoncius/Book-recommendation-app/internal/apperr"
)

// ErrorHandler is the single place where application errors become HTTP
// responses. 5xx causes are logged with full detail and surfaced as a
// generic message; 4xx messages are client-safe by construction.
func ErrorHandler(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}

		ae := apperr.From(last.Err)
		status := ae.Status()

		ev := log.Warn()
		if status >= http.StatusInternalServerError {
			ev = log.Error().Err(last.Err)
		}
		ev.Int("status", status).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")

		if c.Writer.Written() {
			return
		}
		c.JSON(status, gin.H{"success": false, "message": ae.Message})
	}
}
