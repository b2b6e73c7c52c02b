package portfolioController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"codeclub/config"
	"codeclub/database"
	"codeclub/middleware"
	"codeclub/models"
	courseModels "codeclub/models/course"
	portfolioValidator "codeclub/validators/portfolio"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPortfolioApp(t *testing.T) (*fiber.App, string, string) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Portfolio{},
		&courseModels.PortfolioReview{},
	))
	database.Database = database.DbInstance{Db: db}

	student := models.User{Name: "Student", Email: "student@example.com", Password: "x"}
	require.NoError(t, db.Create(&student).Error)
	admin := models.User{Name: "Admin", Email: "admin@example.com", Password: "x", Role: "ADMIN"}
	require.NoError(t, db.Create(&admin).Error)

	studentToken, err := middleware.GenerateJWT(student.ID, student.Name, "USER", student.Email)
	require.NoError(t, err)
	adminToken, err := middleware.GenerateJWT(admin.ID, admin.Name, "ADMIN", admin.Email)
	require.NoError(t, err)

	app := fiber.New()
	group := app.Group("/portfolio", middleware.JWTMiddleware)
	group.Post("/submit", portfolioValidator.SubmitPortfolio(), SubmitPortfolio)
	group.Get("/list", GetMyPortfolios)

	adminGroup := app.Group("/admin/portfolio", middleware.JWTMiddleware)
	adminGroup.Get("/pending", AdminListPendingPortfolios)
	adminGroup.Post("/:portfolio_id/review", portfolioValidator.PortfolioID(), portfolioValidator.ReviewPortfolio(), AdminReviewPortfolio)

	return app, studentToken, adminToken
}

func portfolioPost(t *testing.T, app *fiber.App, token, path string, body interface{}) (map[string]interface{}, int) {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result, resp.StatusCode
}

func TestPortfolioReviewFlow(t *testing.T) {
	app, studentToken, adminToken := setupPortfolioApp(t)

	result, status := portfolioPost(t, app, studentToken, "/portfolio/submit", map[string]interface{}{
		"title":    "Weather CLI",
		"repo_url": "https://example.com/weather-cli",
	})
	require.Equal(t, fiber.StatusCreated, status)

	submitted := result["data"].(map[string]interface{})
	assert.Equal(t, "PENDING", submitted["status"])
	portfolioID := uint(submitted["ID"].(float64))

	// Students cannot review
	_, status = portfolioPost(t, app, studentToken,
		fmt.Sprintf("/admin/portfolio/%d/review", portfolioID),
		map[string]string{"decision": "APPROVED"})
	assert.Equal(t, fiber.StatusForbidden, status)

	result, status = portfolioPost(t, app, adminToken,
		fmt.Sprintf("/admin/portfolio/%d/review", portfolioID),
		map[string]string{"decision": "APPROVED", "feedback": "Nice work"})
	require.Equal(t, fiber.StatusOK, status)

	reviewed := result["data"].(map[string]interface{})["portfolio"].(map[string]interface{})
	assert.Equal(t, "APPROVED", reviewed["status"])

	// A second decision on the same submission is rejected
	_, status = portfolioPost(t, app, adminToken,
		fmt.Sprintf("/admin/portfolio/%d/review", portfolioID),
		map[string]string{"decision": "REJECTED"})
	assert.Equal(t, fiber.StatusConflict, status)

	var review courseModels.PortfolioReview
	require.NoError(t, database.Database.Db.Where("portfolio_id = ?", portfolioID).First(&review).Error)
	assert.Equal(t, "APPROVED", review.Decision)
	assert.Equal(t, "Nice work", review.Feedback)
}

func TestPendingListRequiresAdmin(t *testing.T) {
	app, studentToken, adminToken := setupPortfolioApp(t)

	req := httptest.NewRequest("GET", "/admin/portfolio/pending", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin/portfolio/pending", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestReviewDecisionValidated(t *testing.T) {
	app, studentToken, adminToken := setupPortfolioApp(t)

	result, _ := portfolioPost(t, app, studentToken, "/portfolio/submit", map[string]interface{}{
		"title":    "Chat Bot",
		"repo_url": "https://example.com/chat-bot",
	})
	portfolioID := uint(result["data"].(map[string]interface{})["ID"].(float64))

	_, status := portfolioPost(t, app, adminToken,
		fmt.Sprintf("/admin/portfolio/%d/review", portfolioID),
		map[string]string{"decision": "MAYBE"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}
