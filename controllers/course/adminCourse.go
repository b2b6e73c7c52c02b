package controllers

import (
	"codeclub/database"
	"codeclub/middleware"
	"codeclub/models"
	courseModels "codeclub/models/course"

	"github.com/gofiber/fiber/v2"
)

// requireAdmin resolves the authenticated user and checks the ADMIN role.
// Returns false after writing the error response.
func requireAdmin(c *fiber.Ctx) (models.User, bool) {
	var user models.User

	userID, ok := c.Locals("userId").(uint)
	if !ok {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return user, false
	}

	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return user, false
	}

	if user.Role != "ADMIN" {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
		return user, false
	}

	return user, true
}

// AdminCreateCourse creates a new course
func AdminCreateCourse(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Difficulty   string `json:"difficulty"`
		ThumbnailURL string `json:"thumbnail_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Difficulty:   reqData.Difficulty,
		ThumbnailURL: reqData.ThumbnailURL,
		IsPublished:  false,
	}
	if course.Difficulty == "" {
		course.Difficulty = "BEGINNER"
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates an existing course
func AdminUpdateCourse(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Difficulty   string `json:"difficulty"`
		ThumbnailURL string `json:"thumbnail_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields
	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.Difficulty != "" {
		course.Difficulty = reqData.Difficulty
	}
	if reqData.ThumbnailURL != "" {
		course.ThumbnailURL = reqData.ThumbnailURL
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminPublishCourse toggles a course's published flag
func AdminPublishCourse(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedPublish").(*struct {
		IsPublished bool `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course.IsPublished = reqData.IsPublished
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course publish state updated!", course)
}

// AdminDeleteCourse soft deletes a course
func AdminDeleteCourse(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsDeleted = true
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminAttachBadge links a badge to a course. The badge is awarded by the
// completion cascade once a user finishes the whole course.
func AdminAttachBadge(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedAttachBadge").(*struct {
		BadgeID uint `json:"badge_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var badge courseModels.Badge
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.BadgeID, false).First(&badge).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Badge not found!", nil)
	}

	course.BadgeID = &badge.ID
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to attach badge!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badge attached to course!", course)
}

// AdminListCourses lists all courses including drafts
func AdminListCourses(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}
