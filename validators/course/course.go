package courseValidator

import (
	"strconv"
	"strings"

	"codeclub/middleware"

	"github.com/gofiber/fiber/v2"
)

// idParam parses a positive integer route parameter into c.Locals
func idParam(param, localKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params(param))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+param+"!", nil)
		}
		c.Locals(localKey, id)
		return c.Next()
	}
}

func CourseID() fiber.Handler   { return idParam("course_id", "courseID") }
func LessonID() fiber.Handler   { return idParam("lesson_id", "lessonID") }
func ChapterID() fiber.Handler  { return idParam("chapter_id", "chapterID") }
func ElementID() fiber.Handler  { return idParam("element_id", "elementID") }
func QuizID() fiber.Handler     { return idParam("quiz_id", "quizID") }
func QuestionID() fiber.Handler { return idParam("question_id", "questionID") }

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			Difficulty   string `json:"difficulty"`
			ThumbnailURL string `json:"thumbnail_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		// Validate Description
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		} else if len(strings.TrimSpace(reqData.Description)) < 5 {
			errors["description"] = "Description must be at least 5 characters long!"
		}

		// Validate Difficulty
		if reqData.Difficulty != "" && !isValidDifficulty(reqData.Difficulty) {
			errors["difficulty"] = "Difficulty must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			Difficulty   string `json:"difficulty"`
			ThumbnailURL string `json:"thumbnail_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Difficulty != "" && !isValidDifficulty(reqData.Difficulty) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"difficulty": "Difficulty must be BEGINNER, INTERMEDIATE or ADVANCED!",
			})
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

func PublishCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			IsPublished bool `json:"is_published"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedPublish", reqData)
		return c.Next()
	}
}

func AttachBadge() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			BadgeID uint `json:"badge_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.BadgeID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"badge_id": "Badge ID is required!",
			})
		}

		c.Locals("validatedAttachBadge", reqData)
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && (*reqData.Limit < 1 || *reqData.Limit > 100) {
			errors["limit"] = "Limit must be between 1 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

func isValidDifficulty(d string) bool {
	switch d {
	case "BEGINNER", "INTERMEDIATE", "ADVANCED":
		return true
	default:
		return false
	}
}
