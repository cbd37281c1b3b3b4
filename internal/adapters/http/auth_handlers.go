package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/usecases"
)

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Profile   struct {
		Phone             string `json:"phone" validate:"max=15"`
		IsServiceProvider bool   `json:"is_service_provider"`
	} `json:"profile"`
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// RegisterHandler creates a customer or provider account.
func RegisterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		_, err := deps.Auth.Register(c.UserContext(), usecases.RegisterInput{
			Username:          req.Username,
			Email:             req.Email,
			Password:          req.Password,
			FirstName:         req.FirstName,
			LastName:          req.LastName,
			Phone:             req.Profile.Phone,
			IsServiceProvider: req.Profile.IsServiceProvider,
		})
		if errors.Is(err, domain.ErrConflict) {
			return errConflict(c, "A user with that username already exists.")
		}
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created successfully"})
	}
}

// LoginHandler exchanges credentials for an access/refresh token pair.
func LoginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		pair, err := deps.Auth.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(pair)
	}
}

// RefreshHandler mints a new access token from a refresh token.
func RefreshHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req refreshRequest
		if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
			return errBadRequest(c, "Refresh token is required")
		}
		pair, err := deps.Auth.Refresh(c.UserContext(), req.Refresh)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(pair)
	}
}

// AdminLoginHandler logs in staff users only.
func AdminLoginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		pair, user, err := deps.Auth.AdminLogin(c.UserContext(), req.Username, req.Password)
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return errBadRequest(c, "Invalid admin credentials")
		}
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"refresh":  pair.Refresh,
			"access":   pair.Access,
			"is_admin": true,
			"username": user.Username,
		})
	}
}
