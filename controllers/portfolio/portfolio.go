package portfolioController

import (
	"time"

	"codeclub/database"
	"codeclub/middleware"
	"codeclub/models"
	courseModels "codeclub/models/course"
	"codeclub/utils"

	"github.com/gofiber/fiber/v2"
)

// SubmitPortfolio submits a student project for review
func SubmitPortfolio(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedPortfolio").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		RepoURL     string `json:"repo_url"`
		ImageURL    string `json:"image_url"`
		CourseID    *uint  `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	portfolio := courseModels.Portfolio{
		UserID:      userID,
		Title:       reqData.Title,
		Description: reqData.Description,
		RepoURL:     reqData.RepoURL,
		ImageURL:    reqData.ImageURL,
		Status:      "PENDING",
	}

	if reqData.CourseID != nil {
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", *reqData.CourseID, false).First(&course).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		portfolio.CourseID = reqData.CourseID
	}

	if err := database.Database.Db.Create(&portfolio).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit portfolio!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Portfolio submitted for review!", portfolio)
}

// GetMyPortfolios lists the user's own submissions with their status
func GetMyPortfolios(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var portfolios []courseModels.Portfolio
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&portfolios).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch portfolios!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolios fetched successfully!", portfolios)
}

// AdminListPendingPortfolios lists submissions awaiting review
func AdminListPendingPortfolios(c *fiber.Ctx) error {
	if _, ok := adminFromContext(c); !ok {
		return nil
	}

	var portfolios []courseModels.Portfolio
	if err := database.Database.Db.Where("status = ? AND is_deleted = ?", "PENDING", false).
		Order("created_at asc").Find(&portfolios).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch portfolios!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending portfolios fetched successfully!", portfolios)
}

// AdminReviewPortfolio records an approve/reject decision and notifies the student
func AdminReviewPortfolio(c *fiber.Ctx) error {
	reviewer, ok := adminFromContext(c)
	if !ok {
		return nil
	}

	portfolioID := c.Locals("portfolioID").(int)

	var portfolio courseModels.Portfolio
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", portfolioID, false).First(&portfolio).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Portfolio not found!", nil)
	}

	if portfolio.Status != "PENDING" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Portfolio already reviewed!", nil)
	}

	reqData, ok := c.Locals("validatedReview").(*struct {
		Decision string `json:"decision"`
		Feedback string `json:"feedback"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	review := courseModels.PortfolioReview{
		PortfolioID: portfolio.ID,
		ReviewerID:  reviewer.ID,
		Decision:    reqData.Decision,
		Feedback:    reqData.Feedback,
		ReviewedAt:  time.Now(),
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&review).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save review!", nil)
	}

	portfolio.Status = reqData.Decision
	if err := tx.Save(&portfolio).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update portfolio!", nil)
	}
	tx.Commit()

	var student models.User
	if err := database.Database.Db.Where("id = ?", portfolio.UserID).First(&student).Error; err == nil {
		go utils.SendPortfolioReviewEmail(student.Email, student.Name, portfolio.Title, reqData.Decision, reqData.Feedback)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Portfolio reviewed!", fiber.Map{
		"portfolio": portfolio,
		"review":    review,
	})
}

func adminFromContext(c *fiber.Ctx) (models.User, bool) {
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
