package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/nearmeconnect/internal/core/usecases"
)

type createReviewBody struct {
	ProviderID int64  `json:"provider_id" validate:"required,gt=0"`
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    string `json:"comment"`
}

type updateReviewBody struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment"`
}

// ListReviewsHandler returns reviews of ?provider_id=, or the caller's own.
func ListReviewsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		var providerID *int64
		if raw := c.Query("provider_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return errBadRequest(c, "invalid provider_id")
			}
			providerID = &id
		}
		reviews, err := deps.Reviews.List(c.UserContext(), caller, providerID)
		if err != nil {
			return respondError(c, err)
		}
		return paginate(c, reviews)
	}
}

// CreateReviewHandler rates a provider as the caller.
func CreateReviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		var req createReviewBody
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		review, err := deps.Reviews.Create(c.UserContext(), caller, req.ProviderID, req.Rating, req.Comment)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(review)
	}
}

func GetReviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		review, err := deps.Reviews.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(review)
	}
}

// UpdateReviewHandler edits a review. Author or staff.
func UpdateReviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		var req updateReviewBody
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		review, err := deps.Reviews.Update(c.UserContext(), caller, id, usecases.ReviewUpdate{
			Rating:  req.Rating,
			Comment: req.Comment,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(review)
	}
}

// DeleteReviewHandler removes a review. Author or staff.
func DeleteReviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := principal(c)
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		if err := deps.Reviews.Delete(c.UserContext(), caller, id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
