package courseValidator

import (
	"encoding/json"
	"strings"

	"codeclub/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			OrderIndex  int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func CreateChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title      string `json:"title"`
			OrderIndex int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.OrderIndex < 0 {
			errors["order_index"] = "Order index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChapter", reqData)
		return c.Next()
	}
}

func CreateElement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ElementType string `json:"element_type"`
			Content     string `json:"content"`
			QuizFormID  *uint  `json:"quiz_form_id"`
			OrderIndex  int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		switch reqData.ElementType {
		case "TEXT", "IMAGE", "VIDEO":
			if strings.TrimSpace(reqData.Content) == "" {
				errors["content"] = "Content is required for " + reqData.ElementType + " elements!"
			} else if !json.Valid([]byte(reqData.Content)) {
				errors["content"] = "Content must be a valid JSON document!"
			}
		case "QUIZ":
			if reqData.QuizFormID == nil || *reqData.QuizFormID == 0 {
				errors["quiz_form_id"] = "Quiz form ID is required for QUIZ elements!"
			}
		default:
			errors["element_type"] = "Element type must be TEXT, IMAGE, VIDEO or QUIZ!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedElement", reqData)
		return c.Next()
	}
}

func GenerateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Topic         string `json:"topic"`
			QuestionCount int    `json:"question_count"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.QuestionCount < 0 || reqData.QuestionCount > 20 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"question_count": "Question count must be between 1 and 20!",
			})
		}

		c.Locals("validatedGenerateQuiz", reqData)
		return c.Next()
	}
}

func CreateBadge() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			IconURL     string `json:"icon_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Name) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"name": "Badge name is required!",
			})
		}

		c.Locals("validatedBadge", reqData)
		return c.Next()
	}
}
