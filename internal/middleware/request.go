package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDLocal  = "requestId"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one and echoes it back
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// header values point into the request buffer, which fasthttp reuses
		id := utils.CopyString(c.Get(RequestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Locals(requestIDLocal, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

// RequestIDFrom returns the id RequestID stored, or ""
func RequestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocal).(string)
	return id
}

// AccessLog writes one line per request. Server errors are logged at warn so they reach the logs collection.
func AccessLog(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		fields := []zap.Field{
			zap.String("method", utils.CopyString(c.Method())),
			zap.String("path", utils.CopyString(c.Path())),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("requestId", RequestIDFrom(c)),
		}
		if claims := Claims(c); claims != nil {
			fields = append(fields, zap.String("userId", claims.UserID))
		}

		if status >= fiber.StatusInternalServerError {
			logger.Warn("request failed", fields...)
		} else {
			logger.Info("request", fields...)
		}
		return err
	}
}
