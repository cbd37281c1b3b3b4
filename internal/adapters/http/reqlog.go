package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
)

// RequestIDLogMiddleware stores a logger tagged with the Fiber request ID in
// the user context, so usecases and adapters log through logging.FromContext.
// Must run after requestid.New().
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		if rid == "" {
			return c.Next()
		}

		reqLogger := slog.Default().With("request_id", rid)
		c.SetUserContext(logging.WithLogger(c.UserContext(), rid, reqLogger))
		return c.Next()
	}
}
