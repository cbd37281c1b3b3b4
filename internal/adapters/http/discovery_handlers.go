package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/usecases"
	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
)

// DiscoverHandler merges nearby local providers and external places for
// ?service=&address=&radius=.
func DiscoverHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := deps.Discovery.Discover(c.UserContext(), usecases.DiscoverQuery{
			Service:  c.Query("service"),
			Address:  c.Query("address"),
			Radius:   c.Query("radius"),
			ClientIP: c.IP(),
		})
		if err != nil {
			return discoveryError(c, err)
		}
		return c.JSON(result)
	}
}

func discoveryError(c *fiber.Ctx, err error) error {
	var invalid *usecases.InvalidServiceError
	switch {
	case errors.Is(err, usecases.ErrServiceRequired):
		return errBadRequest(c, "Service type is required")
	case errors.As(err, &invalid):
		return errBadRequest(c, invalid.Error())
	case errors.Is(err, usecases.ErrServiceLookup):
		return errInternal(c, "Could not validate service types")
	case errors.Is(err, domain.ErrLocationUnavailable):
		return errBadRequest(c, "Could not determine valid location.")
	case errors.Is(err, usecases.ErrInvalidRadius):
		return errBadRequest(c, "Radius must be a positive number (max 50000)")
	default:
		return respondError(c, err)
	}
}

// PlaceDetailsHandler resolves :place_id to a local provider or an external place.
func PlaceDetailsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		placeID := c.Params("place_id")
		if placeID == "" {
			return errBadRequest(c, "Place ID is required")
		}

		lookup, err := deps.Discovery.Lookup(c.UserContext(), placeID)
		if errors.Is(err, domain.ErrNotFound) {
			msg := err.Error()
			if msg == domain.ErrNotFound.Error() {
				msg = "Place not found"
			}
			logging.FromContext(c.UserContext()).Info("place lookup miss", "place_id", placeID, "reason", msg)
			return errNotFound(c, msg)
		}
		if err != nil {
			return respondError(c, err)
		}

		if lookup.IsLocal {
			return c.JSON(fiber.Map{"is_local": true, "result": lookup.Provider})
		}
		return c.JSON(fiber.Map{"is_local": false, "result": lookup.External})
	}
}
