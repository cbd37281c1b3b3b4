package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LegacyRoutesMiddleware marks every response under prefix as deprecated
// (RFC 8594 Deprecation/Sunset) and links the equivalent path under successor
// (RFC 8288 rel="successor-version").
func LegacyRoutesMiddleware(prefix, successor string, sunset time.Time) fiber.Handler {
	sunsetHeader := sunset.UTC().Format(time.RFC1123)
	return func(c *fiber.Ctx) error {
		c.Set("Deprecation", "true")
		c.Set("Sunset", sunsetHeader)
		c.Set(fiber.HeaderLink, fmt.Sprintf(`<%s>; rel="successor-version"`, successorPath(c.Path(), prefix, successor)))

		days := time.Until(sunset).Hours() / 24
		c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))
		return c.Next()
	}
}

// successorPath maps "/api/providers/7/request/" to "/v1/providers/7/request".
func successorPath(path, prefix, successor string) string {
	rest := strings.TrimSuffix(strings.TrimPrefix(path, prefix), "/")
	return successor + rest
}
