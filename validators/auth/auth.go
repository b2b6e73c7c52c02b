package authValidator

import (
	"codeclub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Signup validator middleware
func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name     string `json:"name" validate:"required,min=2"`
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required,min=8"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Name":
					errors["name"] = "Name must be at least 2 characters long!"
				case "Email":
					errors["email"] = "A valid email is required!"
				case "Password":
					errors["password"] = "Password must be at least 8 characters long!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Email":
					errors["email"] = "A valid email is required!"
				case "Password":
					errors["password"] = "Password is required!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// Refresh validator middleware
func Refresh() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			RefreshToken string `json:"refresh_token"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.RefreshToken == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"refresh_token": "Refresh token is required!",
			})
		}

		c.Locals("validatedRefresh", reqData)
		return c.Next()
	}
}

// ProfileUpdate validator middleware
func ProfileUpdate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name         string `json:"name"`
			Bio          string `json:"bio"`
			ProfileImage string `json:"profile_image"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Name == "" && reqData.Bio == "" && reqData.ProfileImage == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"body": "At least one field must be provided!",
			})
		}

		c.Locals("validatedProfileUpdate", reqData)
		return c.Next()
	}
}
