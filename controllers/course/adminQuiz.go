package controllers

import (
	"encoding/json"

	"codeclub/database"
	"codeclub/middleware"
	courseModels "codeclub/models/course"
	"codeclub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// AdminCreateQuiz creates a quiz form with its questions
func AdminCreateQuiz(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedQuiz").(*struct {
		Title     string `json:"title"`
		Questions []struct {
			Question      string   `json:"question"`
			Options       []string `json:"options"`
			CorrectAnswer int      `json:"correct_answer"`
		} `json:"questions"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quiz := courseModels.QuizForm{Title: reqData.Title}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&quiz).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	for i, q := range reqData.Questions {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to encode question options!", nil)
		}

		question := courseModels.QuizQuestion{
			QuizFormID:    quiz.ID,
			Question:      q.Question,
			Options:       datatypes.JSON(optionsJSON),
			CorrectAnswer: q.CorrectAnswer,
			OrderIndex:    i,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz questions!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

// AdminGetQuiz returns a quiz with its questions, answers included
func AdminGetQuiz(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.QuizForm
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []courseModels.QuizQuestion
	database.Database.Db.Where("quiz_form_id = ? AND is_deleted = ?", quizID, false).
		Order("order_index asc").Find(&questions)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz":      quiz,
		"questions": questions,
	})
}

// AdminUpdateQuizQuestion updates a single question
func AdminUpdateQuizQuestion(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	questionID := c.Locals("questionID").(int)

	var question courseModels.QuizQuestion
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer *int     `json:"correct_answer"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Question != "" {
		question.Question = reqData.Question
	}
	if len(reqData.Options) == 4 {
		optionsJSON, err := json.Marshal(reqData.Options)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to encode question options!", nil)
		}
		question.Options = datatypes.JSON(optionsJSON)
	}
	if reqData.CorrectAnswer != nil {
		question.CorrectAnswer = *reqData.CorrectAnswer
	}

	if err := database.Database.Db.Save(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", question)
}

// AdminGenerateQuiz builds a quiz for a chapter via the AI helper and
// persists it. Falls back to synthesized questions when the AI call fails.
func AdminGenerateQuiz(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	chapterID := c.Locals("chapterID").(int)

	var chapter courseModels.Chapter
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", chapterID, false).First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	reqData, ok := c.Locals("validatedGenerateQuiz").(*struct {
		Topic         string `json:"topic"`
		QuestionCount int    `json:"question_count"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	topic := reqData.Topic
	if topic == "" {
		topic = chapter.Title
	}

	generated := utils.GenerateQuizQuestions(topic, reqData.QuestionCount)

	quiz := courseModels.QuizForm{Title: "Quiz: " + topic}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&quiz).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	for i, g := range generated {
		optionsJSON, err := json.Marshal(g.Options)
		if err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to encode question options!", nil)
		}

		question := courseModels.QuizQuestion{
			QuizFormID:    quiz.ID,
			Question:      g.Question,
			Options:       datatypes.JSON(optionsJSON),
			CorrectAnswer: g.CorrectAnswer,
			OrderIndex:    i,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save generated questions!", nil)
		}
	}

	// Attach the quiz to the chapter as a new element
	element := courseModels.ChapterElement{
		ChapterID:   uint(chapterID),
		ElementType: "QUIZ",
		QuizFormID:  &quiz.ID,
	}
	if err := tx.Create(&element).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to attach quiz to chapter!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz generated successfully!", fiber.Map{
		"quiz":           quiz,
		"question_count": len(generated),
		"element_id":     element.ID,
	})
}

// AdminCreateBadge creates a badge
func AdminCreateBadge(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedBadge").(*struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IconURL     string `json:"icon_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	badge := courseModels.Badge{
		Name:        reqData.Name,
		Description: reqData.Description,
		IconURL:     reqData.IconURL,
	}

	if err := database.Database.Db.Create(&badge).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create badge!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Badge created successfully!", badge)
}

// AdminListBadges lists all badges
func AdminListBadges(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	var badges []courseModels.Badge
	if err := database.Database.Db.Where("is_deleted = ?", false).Find(&badges).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch badges!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badges fetched successfully!", badges)
}
