package authController

import (
	"log"
	"time"

	"codeclub/config"
	"codeclub/database"
	"codeclub/middleware"
	"codeclub/models"
	"codeclub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const refreshTokenTTL = 30 * 24 * time.Hour

// Signup registers a new student account
func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*struct {
		Name     string `json:"name" validate:"required,min=2"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	go utils.SendWelcomeEmail(newUser.Email, newUser.Name)

	// Clean Response
	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

// Login authenticates a user and issues an access/refresh token pair
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if user.IsBlocked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Account is blocked. Contact support.", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		now := time.Now()
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now
		if user.FailedLoginAttempts >= 5 {
			user.IsBlocked = true
		}
		db.Save(&user)
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	user.FailedLoginAttempts = 0
	user.LastLogin = time.Now()
	db.Save(&user)

	// Track the login
	db.Create(&models.LoginTracking{
		UserID:    user.ID,
		IPAddress: c.IP(),
		Device:    c.Get("User-Agent"),
		Timestamp: time.Now(),
	})

	accessToken, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
	}

	refreshToken, err := issueRefreshToken(user.ID)
	if err != nil {
		log.Printf("Error issuing refresh token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// RefreshToken exchanges a valid refresh token for a new token pair. The
// presented token is revoked on every exchange, expired or not, so a
// stolen token cannot be replayed.
func RefreshToken(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRefresh").(*struct {
		RefreshToken string `json:"refresh_token"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var stored models.RefreshToken
	if err := db.Where("token = ? AND revoked = ? AND is_deleted = ?", reqData.RefreshToken, false, false).First(&stored).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid refresh token!", nil)
	}

	// Rotate first: the old token is spent either way
	stored.Revoked = true
	if err := db.Save(&stored).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh token!", nil)
	}

	if time.Now().After(stored.ExpiresAt) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Refresh token expired. Please login again.", nil)
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", stored.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	accessToken, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh token!", nil)
	}

	refreshToken, err := issueRefreshToken(user.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token refreshed!", fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// GetProfile returns the authenticated user's profile
func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

// UpdateProfile updates name, bio and profile image
func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedProfileUpdate").(*struct {
		Name         string `json:"name"`
		Bio          string `json:"bio"`
		ProfileImage string `json:"profile_image"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Name != "" {
		user.Name = reqData.Name
	}
	if reqData.Bio != "" {
		user.Bio = reqData.Bio
	}
	if reqData.ProfileImage != "" {
		user.ProfileImage = reqData.ProfileImage
	}

	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

func issueRefreshToken(userID uint) (string, error) {
	token := models.RefreshToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := database.Database.Db.Create(&token).Error; err != nil {
		return "", err
	}
	return token.Token, nil
}
