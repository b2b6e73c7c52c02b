package courseValidator

import (
	"strings"

	"codeclub/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title     string `json:"title"`
			Questions []struct {
				Question      string   `json:"question"`
				Options       []string `json:"options"`
				CorrectAnswer int      `json:"correct_answer"`
			} `json:"questions"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if len(reqData.Questions) == 0 {
			errors["questions"] = "At least one question is required!"
		}
		for _, q := range reqData.Questions {
			if strings.TrimSpace(q.Question) == "" {
				errors["questions"] = "Every question needs text!"
				break
			}
			if len(q.Options) != 4 {
				errors["questions"] = "Every question needs exactly 4 options!"
				break
			}
			if q.CorrectAnswer < 0 || q.CorrectAnswer > 3 {
				errors["questions"] = "Correct answer index must be between 0 and 3!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func UpdateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Question      string   `json:"question"`
			Options       []string `json:"options"`
			CorrectAnswer *int     `json:"correct_answer"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Options) != 0 && len(reqData.Options) != 4 {
			errors["options"] = "Options must be exactly 4 strings!"
		}
		if reqData.CorrectAnswer != nil && (*reqData.CorrectAnswer < 0 || *reqData.CorrectAnswer > 3) {
			errors["correct_answer"] = "Correct answer index must be between 0 and 3!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers []int `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Answers) == 0 {
			errors["answers"] = "Answers are required!"
		}
		for _, a := range reqData.Answers {
			if a < 0 || a > 3 {
				errors["answers"] = "Each answer must be an index between 0 and 3!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizSubmission", reqData)
		return c.Next()
	}
}
