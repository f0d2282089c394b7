// Package middleware holds echo middleware shared by the socket server.
package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// CharmLog logs every request through charmbracelet/log. Failed requests are
// logged as warnings.
func CharmLog() echo.MiddlewareFunc {
	logger := log.WithPrefix("ipc")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			fields := []any{
				"method", req.Method,
				"uri", req.RequestURI,
				"status", status,
				"latency", time.Since(start),
			}
			if status >= 400 {
				logger.Warn("request failed", fields...)
			} else {
				logger.Debug("request", fields...)
			}
			return nil
		}
	}
}
