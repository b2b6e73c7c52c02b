package controllers

import (
	"codeclub/database"
	"codeclub/middleware"
	"codeclub/models"
	courseModels "codeclub/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists published courses with pagination
func GetAllCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, _ := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_deleted = ? AND is_published = ?", false, true)

	if difficulty := c.Query("difficulty"); difficulty != "" {
		db = db.Where("difficulty = ?", difficulty)
	}

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseDetails returns a published course with its lesson and chapter tree
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessons []courseModels.Lesson
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&lessons)

	type LessonWithChapters struct {
		courseModels.Lesson
		Chapters []courseModels.Chapter `json:"chapters"`
	}

	result := make([]LessonWithChapters, len(lessons))
	for i, lesson := range lessons {
		result[i] = LessonWithChapters{Lesson: lesson}

		var chapters []courseModels.Chapter
		database.Database.Db.Where("lesson_id = ? AND is_deleted = ?", lesson.ID, false).
			Order("order_index asc").Find(&chapters)
		result[i].Chapters = chapters
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":  course,
		"lessons": result,
	})
}

// GetChapterElements returns the content blocks of a chapter. Quiz
// elements are returned with their questions but with the correct answer
// indices stripped.
func GetChapterElements(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	chapterID := c.Locals("chapterID").(int)

	var chapter courseModels.Chapter
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", chapterID, false).First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	var elements []courseModels.ChapterElement
	if err := database.Database.Db.Where("chapter_id = ? AND is_deleted = ?", chapterID, false).
		Order("order_index asc").Find(&elements).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chapter content!", nil)
	}

	type ElementWithQuiz struct {
		courseModels.ChapterElement
		Quiz        *courseModels.QuizForm      `json:"quiz,omitempty"`
		Questions   []courseModels.QuizQuestion `json:"questions,omitempty"`
		IsCompleted bool                        `json:"is_completed"`
	}

	var completion courseModels.UserChapterProgress
	chapterDone := database.Database.Db.
		Where("user_id = ? AND chapter_id = ? AND completed = ?", userID, chapterID, true).
		First(&completion).Error == nil

	result := make([]ElementWithQuiz, len(elements))
	for i, element := range elements {
		result[i] = ElementWithQuiz{
			ChapterElement: element,
			IsCompleted:    chapterDone,
		}

		if element.ElementType == "QUIZ" && element.QuizFormID != nil {
			var quiz courseModels.QuizForm
			if err := database.Database.Db.Where("id = ? AND is_deleted = ?", *element.QuizFormID, false).First(&quiz).Error; err == nil {
				result[i].Quiz = &quiz

				var questions []courseModels.QuizQuestion
				database.Database.Db.Where("quiz_form_id = ? AND is_deleted = ?", quiz.ID, false).
					Order("order_index asc").Find(&questions)
				// Don't leak answers to students
				for j := range questions {
					questions[j].CorrectAnswer = -1
				}
				result[i].Questions = questions
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter content fetched successfully!", fiber.Map{
		"chapter":  chapter,
		"elements": result,
	})
}

// GetUserBadges lists the badges the user has earned
func GetUserBadges(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var userBadges []courseModels.UserBadge
	if err := database.Database.Db.Preload("Badge").
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("awarded_at desc").Find(&userBadges).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch badges!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badges fetched successfully!", userBadges)
}
