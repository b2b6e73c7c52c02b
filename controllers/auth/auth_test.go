package authController

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"codeclub/config"
	"codeclub/database"
	"codeclub/middleware"
	"codeclub/models"
	authValidator "codeclub/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthApp(t *testing.T) *fiber.App {
	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.LoginTracking{},
	))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	auth := app.Group("/auth")
	auth.Post("/signup", authValidator.Signup(), Signup)
	auth.Post("/login", authValidator.Login(), Login)
	auth.Post("/refresh", authValidator.Refresh(), RefreshToken)
	auth.Get("/profile", middleware.JWTMiddleware, GetProfile)

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (map[string]interface{}, int) {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result, resp.StatusCode
}

func TestSignupAndLogin(t *testing.T) {
	app := setupAuthApp(t)

	result, status := postJSON(t, app, "/auth/signup", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, result["status"])

	user := result["data"].(map[string]interface{})
	assert.Equal(t, "Ada", user["Name"])
	assert.Empty(t, user["Password"])

	// Duplicate email is rejected
	_, status = postJSON(t, app, "/auth/signup", map[string]string{
		"name":     "Ada Again",
		"email":    "ada@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	result, status = postJSON(t, app, "/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, fiber.StatusOK, status)

	data := result["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])
}

func TestSignupValidation(t *testing.T) {
	app := setupAuthApp(t)

	result, status := postJSON(t, app, "/auth/signup", map[string]string{
		"name":     "A",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, false, result["status"])

	errors := result["data"].(map[string]interface{})
	assert.Contains(t, errors, "name")
	assert.Contains(t, errors, "email")
	assert.Contains(t, errors, "password")
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupAuthApp(t)

	postJSON(t, app, "/auth/signup", map[string]string{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "rightpassword",
	})

	_, status := postJSON(t, app, "/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "bob@example.com").First(&user).Error)
	assert.Equal(t, 1, user.FailedLoginAttempts)
}

func TestAccountBlockedAfterFailedAttempts(t *testing.T) {
	app := setupAuthApp(t)

	postJSON(t, app, "/auth/signup", map[string]string{
		"name":     "Carol",
		"email":    "carol@example.com",
		"password": "rightpassword",
	})

	for i := 0; i < 5; i++ {
		_, status := postJSON(t, app, "/auth/login", map[string]string{
			"email":    "carol@example.com",
			"password": "wrongpassword",
		})
		assert.Equal(t, fiber.StatusUnauthorized, status)
	}

	// Even the correct password is refused once blocked
	_, status := postJSON(t, app, "/auth/login", map[string]string{
		"email":    "carol@example.com",
		"password": "rightpassword",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestRefreshTokenRotation(t *testing.T) {
	app := setupAuthApp(t)

	postJSON(t, app, "/auth/signup", map[string]string{
		"name":     "Dave",
		"email":    "dave@example.com",
		"password": "supersecret",
	})
	result, _ := postJSON(t, app, "/auth/login", map[string]string{
		"email":    "dave@example.com",
		"password": "supersecret",
	})
	refreshToken := result["data"].(map[string]interface{})["refresh_token"].(string)

	result, status := postJSON(t, app, "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	})
	assert.Equal(t, fiber.StatusOK, status)

	rotated := result["data"].(map[string]interface{})["refresh_token"].(string)
	assert.NotEqual(t, refreshToken, rotated)

	// The spent token cannot be replayed
	_, status = postJSON(t, app, "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	// The rotated token still works
	_, status = postJSON(t, app, "/auth/refresh", map[string]string{
		"refresh_token": rotated,
	})
	assert.Equal(t, fiber.StatusOK, status)
}

func TestProfileRequiresToken(t *testing.T) {
	app := setupAuthApp(t)

	req := httptest.NewRequest("GET", "/auth/profile", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	postJSON(t, app, "/auth/signup", map[string]string{
		"name":     "Eve",
		"email":    "eve@example.com",
		"password": "supersecret",
	})
	result, _ := postJSON(t, app, "/auth/login", map[string]string{
		"email":    "eve@example.com",
		"password": "supersecret",
	})
	accessToken := result["data"].(map[string]interface{})["access_token"].(string)

	req = httptest.NewRequest("GET", "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result2 map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result2))
	assert.Equal(t, "eve@example.com", result2["data"].(map[string]interface{})["Email"])
}
