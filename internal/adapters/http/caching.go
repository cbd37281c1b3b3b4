package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets a default Cache-Control on GET responses that the
// handler left unset. Anything behind authentication is private.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		if ttl := cacheControlFor(c.Path(), c.Get(fiber.HeaderAuthorization) != ""); ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}
		return err
	}
}

func cacheControlFor(path string, authenticated bool) string {
	path = strings.TrimPrefix(path, "/api")
	path = "/" + strings.Trim(strings.TrimPrefix(path, "/v1"), "/")

	switch {
	case path == "/health" || path == "/ready":
		return "public, max-age=10"
	case path == "/metrics", path == "/ws":
		return "no-cache"
	case path == "/graphql":
		return "private, max-age=0"
	case path == "/discover":
		// Varies by client IP when no address is given.
		return "private, max-age=300"
	case strings.HasPrefix(path, "/places/"):
		return "public, max-age=600"
	case strings.HasPrefix(path, "/docs"):
		return "public, max-age=3600"
	case authenticated:
		return "private, no-cache"
	}
	return ""
}
