package portfolioValidator

import (
	"strconv"
	"strings"

	"codeclub/middleware"

	"github.com/gofiber/fiber/v2"
)

func PortfolioID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("portfolio_id"))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid portfolio_id!", nil)
		}
		c.Locals("portfolioID", id)
		return c.Next()
	}
}

func SubmitPortfolio() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			RepoURL     string `json:"repo_url"`
			ImageURL    string `json:"image_url"`
			CourseID    *uint  `json:"course_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.RepoURL) == "" {
			errors["repo_url"] = "Repository URL is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPortfolio", reqData)
		return c.Next()
	}
}

func ReviewPortfolio() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Decision string `json:"decision"`
			Feedback string `json:"feedback"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Decision != "APPROVED" && reqData.Decision != "REJECTED" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"decision": "Decision must be APPROVED or REJECTED!",
			})
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
