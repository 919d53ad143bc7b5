package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one line per request with method, path, status and
// latency. Health checks are skipped to keep the log readable.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			}
		}
		log.Printf("%s %s -> %d (%s)", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
