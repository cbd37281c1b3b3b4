package http

import (
	"github.com/gofiber/fiber/v2"
)

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ListCategoriesHandler returns all service categories ordered by name.
func ListCategoriesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := deps.Categories.List(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return paginate(c, categories)
	}
}

// GetCategoryHandler returns a single category.
func GetCategoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		category, err := deps.Categories.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(category)
	}
}

// CreateCategoryHandler adds a category. Staff only.
func CreateCategoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req categoryRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		category, err := deps.Categories.Create(c.UserContext(), req.Name)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(category)
	}
}

// UpdateCategoryHandler renames a category. Staff only.
func UpdateCategoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		var req categoryRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		category, err := deps.Categories.Update(c.UserContext(), id, req.Name)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(category)
	}
}

// DeleteCategoryHandler removes a category. Staff only.
func DeleteCategoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := pathID(c, "id")
		if !ok {
			return err
		}
		if err := deps.Categories.Delete(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
