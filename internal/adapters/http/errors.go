package http

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int          `json:"status"`
	Code      string       `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string       `json:"message"` // Human-readable message
	RequestID string       `json:"request_id,omitempty"`
	Details   []FieldError `json:"details,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errUnauthorized returns a 401 error.
func errUnauthorized(c *fiber.Ctx, msg string) error {
	return newError(c, 401, "unauthorized", msg)
}

// errForbidden returns a 403 error.
func errForbidden(c *fiber.Ctx, msg string) error {
	return newError(c, 403, "forbidden", msg)
}

// errConflict returns a 409 error.
func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, 409, "conflict", msg)
}

// errBadGateway returns a 502 error.
func errBadGateway(c *fiber.Ctx, msg string) error {
	return newError(c, 502, "bad_gateway", msg)
}

// errValidation returns a 400 error listing the offending fields.
func errValidation(c *fiber.Ctx, details []FieldError) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(400).JSON(APIError{
		Status:    400,
		Code:      "validation_failed",
		Message:   "Invalid request data",
		RequestID: reqID,
		Details:   details,
	})
}

// respondError maps a usecase error onto the matching HTTP status.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, detail(err, domain.ErrNotFound, "Not found"))
	case errors.Is(err, domain.ErrInvalidInput):
		return errBadRequest(c, detail(err, domain.ErrInvalidInput, "Invalid input"))
	case errors.Is(err, domain.ErrLocationUnavailable):
		return errBadRequest(c, detail(err, domain.ErrLocationUnavailable, "Could not determine your location"))
	case errors.Is(err, domain.ErrTooFar):
		return errBadRequest(c, "Provider is too far from your location")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errUnauthorized(c, "No active account found with the given credentials")
	case errors.Is(err, domain.ErrInvalidToken):
		return errUnauthorized(c, "Token is invalid or expired")
	case errors.Is(err, domain.ErrForbidden):
		return errForbidden(c, detail(err, domain.ErrForbidden, "You do not have permission to perform this action"))
	case errors.Is(err, domain.ErrConflict):
		return errConflict(c, detail(err, domain.ErrConflict, "Already exists"))
	case errors.Is(err, domain.ErrUpstream):
		logging.FromContext(c.UserContext()).Warn("upstream failure", "path", c.Path(), "error", err)
		return errBadGateway(c, "Upstream service unavailable")
	default:
		logging.FromContext(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, "internal server error")
	}
}

// detail extracts the human message a usecase attached to sentinel
// ("<sentinel>: message"), capitalised. Anything else yields fallback.
func detail(err, sentinel error, fallback string) string {
	prefix := sentinel.Error() + ": "
	msg := err.Error()
	i := strings.Index(msg, prefix)
	if i < 0 {
		return fallback
	}
	msg = msg[i+len(prefix):]
	if msg == "" {
		return fallback
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
