package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medrec/internal/platform/httperr"
)

// RequestTimeout sets a context deadline on each incoming request. Every
// outbound call made by the adapters inherits the request context, so a
// hanging gateway, database, or chain node cannot block a request past the
// deadline. On expiry the client gets a 504.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					if !c.Response().Committed {
						return c.JSON(http.StatusGatewayTimeout,
							httperr.Body("timeout", "request exceeded the allowed time limit"))
					}
					return nil
				}
				return ctx.Err()
			}
		}
	}
}
