package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
)

const principalKey = "principal"

// RequireAuth rejects requests without a valid bearer access token.
func RequireAuth(v AccessVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return errUnauthorized(c, "Authentication credentials were not provided.")
		}
		claims, err := v.ParseAccess(token)
		if err != nil {
			return errUnauthorized(c, "Given token not valid for any token type")
		}
		c.Locals(principalKey, *claims.Principal())
		return c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is presented and lets
// anonymous requests through. An invalid token is treated as anonymous.
func OptionalAuth(v AccessVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" && v != nil {
			if claims, err := v.ParseAccess(token); err == nil {
				c.Locals(principalKey, *claims.Principal())
			}
		}
		return c.Next()
	}
}

// RequireStaff must run after RequireAuth.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal(c)
		if !ok || !p.IsStaff {
			return errForbidden(c, "You do not have permission to perform this action.")
		}
		return c.Next()
	}
}

// principal returns the authenticated caller, if any.
func principal(c *fiber.Ctx) (domain.Principal, bool) {
	p, ok := c.Locals(principalKey).(domain.Principal)
	return p, ok
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
