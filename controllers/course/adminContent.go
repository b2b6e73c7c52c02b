package controllers

import (
	"codeclub/database"
	"codeclub/middleware"
	courseModels "codeclub/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// AdminCreateLesson adds a lesson to a course
func AdminCreateLesson(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		OrderIndex  int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lesson := courseModels.Lesson{
		CourseID:    uint(courseID),
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// AdminUpdateLesson updates a lesson
func AdminUpdateLesson(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		OrderIndex  int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		lesson.Title = reqData.Title
	}
	if reqData.Description != "" {
		lesson.Description = reqData.Description
	}
	if reqData.OrderIndex > 0 {
		lesson.OrderIndex = reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

// AdminDeleteLesson soft deletes a lesson
func AdminDeleteLesson(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	lesson.IsDeleted = true
	if err := database.Database.Db.Save(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// AdminCreateChapter adds a chapter to a lesson
func AdminCreateChapter(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	lessonID := c.Locals("lessonID").(int)

	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData, ok := c.Locals("validatedChapter").(*struct {
		Title      string `json:"title"`
		OrderIndex int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	chapter := courseModels.Chapter{
		LessonID:   uint(lessonID),
		Title:      reqData.Title,
		OrderIndex: reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create chapter!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chapter created successfully!", chapter)
}

// AdminDeleteChapter soft deletes a chapter
func AdminDeleteChapter(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	chapterID := c.Locals("chapterID").(int)

	var chapter courseModels.Chapter
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", chapterID, false).First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	chapter.IsDeleted = true
	if err := database.Database.Db.Save(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete chapter!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter deleted successfully!", nil)
}

// AdminCreateElement adds a content element to a chapter. QUIZ elements
// must reference an existing quiz form.
func AdminCreateElement(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	chapterID := c.Locals("chapterID").(int)

	var chapter courseModels.Chapter
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", chapterID, false).First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	reqData, ok := c.Locals("validatedElement").(*struct {
		ElementType string `json:"element_type"`
		Content     string `json:"content"`
		QuizFormID  *uint  `json:"quiz_form_id"`
		OrderIndex  int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	element := courseModels.ChapterElement{
		ChapterID:   uint(chapterID),
		ElementType: reqData.ElementType,
		OrderIndex:  reqData.OrderIndex,
	}
	if reqData.Content != "" {
		element.Content = datatypes.JSON(reqData.Content)
	}

	if reqData.ElementType == "QUIZ" {
		if reqData.QuizFormID == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "QUIZ element requires quiz_form_id!", nil)
		}
		var quiz courseModels.QuizForm
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", *reqData.QuizFormID, false).First(&quiz).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		element.QuizFormID = reqData.QuizFormID
	}

	if err := database.Database.Db.Create(&element).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create element!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Element created successfully!", element)
}

// AdminDeleteElement soft deletes a chapter element
func AdminDeleteElement(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	elementID := c.Locals("elementID").(int)

	var element courseModels.ChapterElement
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", elementID, false).First(&element).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Element not found!", nil)
	}

	element.IsDeleted = true
	if err := database.Database.Db.Save(&element).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete element!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Element deleted successfully!", nil)
}
