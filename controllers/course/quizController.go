package controllers

import (
	"errors"

	"codeclub/database"
	"codeclub/middleware"
	"codeclub/models"
	courseModels "codeclub/models/course"
	"codeclub/utils"

	"github.com/gofiber/fiber/v2"
)

// SubmitQuiz scores a quiz submission and, on a pass, runs the completion
// cascade for the chapter the quiz is attached to
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)

	reqData, ok := c.Locals("validatedQuizSubmission").(*struct {
		Answers []int `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var quiz courseModels.QuizForm
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []courseModels.QuizQuestion
	if err := database.Database.Db.Where("quiz_form_id = ? AND is_deleted = ?", quizID, false).
		Order("order_index asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load quiz questions!", nil)
	}

	result, err := ScoreQuizSubmission(questions, reqData.Answers)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answer count does not match question count!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to score quiz!", nil)
	}

	response := fiber.Map{
		"score":      result.Score,
		"total":      result.Total,
		"percentage": result.Percentage,
		"passed":     result.Passed,
	}

	if !result.Passed {
		response["message"] = "Quiz not passed. Try again!"
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", response)
	}

	// Resolve the owning chapter via the quiz element. A quiz not attached
	// to any chapter is scored but cascades nothing.
	var element courseModels.ChapterElement
	if err := database.Database.Db.Where("quiz_form_id = ? AND is_deleted = ?", quizID, false).First(&element).Error; err != nil {
		response["message"] = "Quiz passed!"
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", response)
	}

	cascade, err := CompleteChapterForUser(database.Database.Db, userID, element.ChapterID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record progress!", err.Error())
	}

	response["message"] = "Quiz passed!"
	response["badge_awarded"] = cascade.BadgeAwarded
	response["course_completed"] = cascade.CourseCompleted

	if cascade.BadgeAwarded {
		go notifyBadgeAwarded(user, element.ChapterID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", response)
}

// MarkChapterComplete marks a chapter complete with no quiz gate
func MarkChapterComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	chapterID := c.Locals("chapterID").(int)

	cascade, err := CompleteChapterForUser(database.Database.Db, userID, uint(chapterID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark chapter complete!", err.Error())
	}

	if cascade.BadgeAwarded {
		go notifyBadgeAwarded(user, uint(chapterID))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chapter marked as completed!", fiber.Map{
		"lesson_completed": cascade.LessonCompleted,
		"course_completed": cascade.CourseCompleted,
		"badge_awarded":    cascade.BadgeAwarded,
	})
}

// notifyBadgeAwarded emails the user about a freshly earned badge. Runs in
// a goroutine; failures are logged by the email service.
func notifyBadgeAwarded(user models.User, chapterID uint) {
	var badge courseModels.Badge
	err := database.Database.Db.
		Joins("JOIN courses ON courses.badge_id = badges.id").
		Joins("JOIN lessons ON lessons.course_id = courses.id").
		Joins("JOIN chapters ON chapters.lesson_id = lessons.id").
		Where("chapters.id = ?", chapterID).
		First(&badge).Error
	if err != nil {
		return
	}
	utils.SendBadgeAwardedEmail(user.Email, user.Name, badge.Name)
}

// GetUserCourseProgress returns the user's completion percentages for one
// course. Read-only: derived from the progress tables, never cascades.
func GetUserCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessons []courseModels.Lesson
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&lessons)

	type LessonProgress struct {
		LessonID          uint    `json:"lesson_id"`
		LessonTitle       string  `json:"lesson_title"`
		TotalChapters     int64   `json:"total_chapters"`
		CompletedChapters int64   `json:"completed_chapters"`
		Progress          float64 `json:"progress"`
		Completed         bool    `json:"completed"`
	}

	var totalChapters, completedChapters int64
	lessonProgress := make([]LessonProgress, len(lessons))
	for i, lesson := range lessons {
		var total int64
		var completed int64

		database.Database.Db.Model(&courseModels.Chapter{}).
			Where("lesson_id = ? AND is_deleted = ?", lesson.ID, false).Count(&total)
		database.Database.Db.Model(&courseModels.UserChapterProgress{}).
			Joins("JOIN chapters ON chapters.id = user_chapter_progresses.chapter_id").
			Where("user_chapter_progresses.user_id = ? AND user_chapter_progresses.completed = ? AND chapters.lesson_id = ?", userID, true, lesson.ID).
			Count(&completed)

		progress := float64(0)
		if total > 0 {
			progress = float64(completed) / float64(total) * 100
		}

		var lessonDone courseModels.UserLessonProgress
		isLessonDone := database.Database.Db.
			Where("user_id = ? AND lesson_id = ? AND completed = ?", userID, lesson.ID, true).
			First(&lessonDone).Error == nil

		lessonProgress[i] = LessonProgress{
			LessonID:          lesson.ID,
			LessonTitle:       lesson.Title,
			TotalChapters:     total,
			CompletedChapters: completed,
			Progress:          progress,
			Completed:         isLessonDone,
		}

		totalChapters += total
		completedChapters += completed
	}

	courseProgress := float64(0)
	if totalChapters > 0 {
		courseProgress = float64(completedChapters) / float64(totalChapters) * 100
	}

	var courseDone courseModels.UserCourseProgress
	isCourseDone := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		First(&courseDone).Error == nil

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"course_id":        course.ID,
		"course_title":     course.Title,
		"progress":         courseProgress,
		"completed":        isCourseDone,
		"lesson_progress":  lessonProgress,
		"total_chapters":   totalChapters,
		"completed_count":  completedChapters,
	})
}
