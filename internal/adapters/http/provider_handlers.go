package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
	"github.com/samirrijal/nearmeconnect/internal/core/usecases"
)

type providerRequest struct {
	CategoryID   *int64   `json:"category_id" validate:"omitempty,gt=0"`
	Bio          *string  `json:"bio"`
	Phone        *string  `json:"phone" validate:"omitempty,max=15"`
	Address      *string  `json:"address" validate:"omitempty,max=255"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ProfileImage *string  `json:"profile_image" validate:"omitempty,url"`
}

func (r providerRequest) input() usecases.ProviderInput {
	return usecases.ProviderInput{
		CategoryID:   r.CategoryID,
		Bio:          r.Bio,
		Phone:        r.Phone,
		Address:      r.Address,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		ProfileImage: r.ProfileImage,
	}
}

// ListProvidersHandler returns providers, optionally filtered by ?category=<name>.
func ListProvidersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		providers, err := deps.Providers.List(c.UserContext(), ports.ProviderFilter{
			Category: strings.TrimSpace(c.Query("category")),
		})
		if err != nil {
			return respondError(c, err)
		}
		return paginate(c, providers)
	}
}

// GetProviderHandler returns a single provider.
func GetProviderHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		provider, err := deps.Providers.Get(c.UserContext(), id)
		if errors.Is(err, domain.ErrNotFound) {
			return errNotFound(c, "Provider not found")
		}
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(provider)
	}
}

// CreateProviderHandler registers the caller's provider record.
func CreateProviderHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		var req providerRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		provider, err := deps.Providers.Create(c.UserContext(), caller, req.input())
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(provider)
	}
}

// UpdateProviderHandler serves PUT and PATCH; omitted fields are unchanged.
func UpdateProviderHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		var req providerRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		provider, err := deps.Providers.Update(c.UserContext(), caller, id, req.input())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(provider)
	}
}

// DeleteProviderHandler removes a provider record. Owner or staff.
func DeleteProviderHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		if err := deps.Providers.Delete(c.UserContext(), caller, id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UpdateLocationHandler moves the calling provider to {latitude, longitude}.
// Coordinates may be sent as JSON numbers or numeric strings.
func UpdateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		ctx := c.UserContext()

		var body map[string]any
		_ = json.Unmarshal(c.Body(), &body)
		lat, errLat := coordinate(body["latitude"])
		lng, errLng := coordinate(body["longitude"])
		if errLat != nil || errLng != nil {
			if _, err := deps.Providers.ForUser(ctx, caller.UserID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return errForbidden(c, "Only service providers can update location")
				}
				return respondError(c, err)
			}
			return errBadRequest(c, "Invalid coordinate format")
		}

		provider, err := deps.Providers.UpdateLocation(ctx, caller, domain.GeoPoint{Lat: lat, Lng: lng})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":  "Location updated successfully",
			"location": provider.Location,
		})
	}
}

func coordinate(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return 0, fmt.Errorf("unsupported coordinate %T", v)
	}
}
