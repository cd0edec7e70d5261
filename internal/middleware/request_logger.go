package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vidflow/backend/pkg/logger"
)

// RequestLogger logs one structured line per request and tags each request
// with an X-Request-ID header.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := uuid.New().String()
			c.Set("RequestID", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Log.Info(req.URL.Path,
				zap.Int("status", c.Response().Status),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("query", req.URL.RawQuery),
				zap.String("ip", c.RealIP()),
				zap.String("request_id", requestID),
				zap.Duration("cost", time.Since(start)),
			)
			return err
		}
	}
}
