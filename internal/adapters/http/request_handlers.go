package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/usecases"
)

type createRequestBody struct {
	ProviderID int64  `json:"provider_id" validate:"required,gt=0"`
	Message    string `json:"message" validate:"required"`
}

type nearbyRequestBody struct {
	Message   string   `json:"message" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required_with=Longitude"`
	Longitude *float64 `json:"longitude" validate:"required_with=Latitude"`
}

type updateRequestBody struct {
	Message     *string `json:"message" validate:"omitempty,min=1"`
	IsAccepted  *bool   `json:"is_accepted"`
	IsCompleted *bool   `json:"is_completed"`
}

// ListRequestsHandler returns requests addressed to the calling provider, or
// the calling customer's own requests.
func ListRequestsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		requests, err := deps.Requests.List(c.UserContext(), caller)
		if err != nil {
			return respondError(c, err)
		}
		return paginate(c, requests)
	}
}

// CreateRequestHandler files a request to any provider. Customers only.
func CreateRequestHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		var req createRequestBody
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		created, err := deps.Requests.Create(c.UserContext(), caller, req.ProviderID, req.Message)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// RequestProviderHandler files a request to provider :id if the caller is
// close enough. The caller's position comes from the body or from their IP.
func RequestProviderHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		var req nearbyRequestBody
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		var origin *domain.GeoPoint
		if req.Latitude != nil && req.Longitude != nil {
			origin = &domain.GeoPoint{Lat: *req.Latitude, Lng: *req.Longitude}
		}
		created, err := deps.Requests.CreateNearby(c.UserContext(), caller, id, req.Message, origin, c.IP())
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// GetRequestHandler returns a request the caller takes part in.
func GetRequestHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		r, err := deps.Requests.Get(c.UserContext(), caller, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(r)
	}
}

// UpdateRequestHandler edits the message or, for the provider, the status flags.
func UpdateRequestHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		var req updateRequestBody
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		r, err := deps.Requests.Update(c.UserContext(), caller, id, usecases.RequestUpdate{
			Message:     req.Message,
			IsAccepted:  req.IsAccepted,
			IsCompleted: req.IsCompleted,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(r)
	}
}

func DeleteRequestHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		if err := deps.Requests.Delete(c.UserContext(), caller, id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
