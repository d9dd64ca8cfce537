package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-widget/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

// Timeout puts a deadline on the request context. Handlers stay on the gin
// goroutine; when one returns past the deadline without writing or setting
// a status, the client gets 503 TIMEOUT.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		// gin defers the header write, so a bare c.Status leaves Written false.
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) || c.Writer.Written() || c.Writer.Status() != http.StatusOK {
			return
		}

		logging.FromContext(ctx).WarnContext(ctx, "request deadline exceeded",
			slog.String("path", c.Request.URL.Path),
			slog.Duration("timeout", d),
		)

		resp := dto.NewErrorResponse(dto.ErrorCodeTimeout, "request timeout exceeded").WithTraceID(dto.GetTraceID(c))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp)
	}
}
