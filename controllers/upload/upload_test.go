package uploadController

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"codeclub/config"
	"codeclub/database"
	"codeclub/middleware"
	"codeclub/models"
	courseModels "codeclub/models/course"
	uploadValidator "codeclub/validators/upload"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUploadApp(t *testing.T) (*fiber.App, string) {
	config.AppConfig = &config.Config{
		JWTKey:           "test-secret",
		UploadDir:        t.TempDir(),
		UploadSessionTTL: 24,
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
		&courseModels.UploadSession{},
		&courseModels.UploadChunk{},
	))
	database.Database = database.DbInstance{Db: db}

	user := models.User{Name: "Uploader", Email: "uploader@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, "USER", user.Email)
	require.NoError(t, err)

	app := fiber.New()
	upload := app.Group("/upload", middleware.JWTMiddleware)
	upload.Post("/start", uploadValidator.StartUpload(), StartUpload)
	upload.Post("/chunk", uploadValidator.UploadChunk(), UploadChunk)
	upload.Post("/finalize", uploadValidator.FinalizeUpload(), FinalizeUpload)

	return app, token
}

func uploadPost(t *testing.T, app *fiber.App, token, path string, body interface{}) (map[string]interface{}, int) {
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

func TestChunkedUploadFlow(t *testing.T) {
	app, token := setupUploadApp(t)

	result, status := uploadPost(t, app, token, "/upload/start", map[string]interface{}{
		"file_name":    "avatar.png",
		"total_chunks": 2,
	})
	require.Equal(t, fiber.StatusCreated, status)
	sessionID := result["data"].(map[string]interface{})["session_id"].(string)
	require.NotEmpty(t, sessionID)

	first := []byte("hello ")
	second := []byte("world")

	_, status = uploadPost(t, app, token, "/upload/chunk", map[string]interface{}{
		"session_id":  sessionID,
		"chunk_index": 0,
		"data":        base64.StdEncoding.EncodeToString(first),
	})
	require.Equal(t, fiber.StatusOK, status)

	// Finalizing with a missing chunk is rejected
	_, status = uploadPost(t, app, token, "/upload/finalize", map[string]interface{}{
		"session_id": sessionID,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	_, status = uploadPost(t, app, token, "/upload/chunk", map[string]interface{}{
		"session_id":  sessionID,
		"chunk_index": 1,
		"data":        base64.StdEncoding.EncodeToString(second),
	})
	require.Equal(t, fiber.StatusOK, status)

	result, status = uploadPost(t, app, token, "/upload/finalize", map[string]interface{}{
		"session_id": sessionID,
	})
	require.Equal(t, fiber.StatusOK, status)

	written, err := os.ReadFile(filepath.Join(config.AppConfig.UploadDir, sessionID+".png"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(written))

	// Session is closed and its chunks are gone
	var session courseModels.UploadSession
	require.NoError(t, database.Database.Db.Where("session_id = ?", sessionID).First(&session).Error)
	assert.Equal(t, "FINALIZED", session.Status)

	var chunkCount int64
	database.Database.Db.Model(&courseModels.UploadChunk{}).Where("session_id = ?", sessionID).Count(&chunkCount)
	assert.Equal(t, int64(0), chunkCount)

	// A closed session takes no more chunks
	_, status = uploadPost(t, app, token, "/upload/chunk", map[string]interface{}{
		"session_id":  sessionID,
		"chunk_index": 0,
		"data":        base64.StdEncoding.EncodeToString(first),
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestChunkResendOverwrites(t *testing.T) {
	app, token := setupUploadApp(t)

	result, _ := uploadPost(t, app, token, "/upload/start", map[string]interface{}{
		"file_name":    "notes.txt",
		"total_chunks": 1,
	})
	sessionID := result["data"].(map[string]interface{})["session_id"].(string)

	uploadPost(t, app, token, "/upload/chunk", map[string]interface{}{
		"session_id":  sessionID,
		"chunk_index": 0,
		"data":        base64.StdEncoding.EncodeToString([]byte("draft")),
	})
	result, status := uploadPost(t, app, token, "/upload/chunk", map[string]interface{}{
		"session_id":  sessionID,
		"chunk_index": 0,
		"data":        base64.StdEncoding.EncodeToString([]byte("final")),
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), result["data"].(map[string]interface{})["received"])

	uploadPost(t, app, token, "/upload/finalize", map[string]interface{}{
		"session_id": sessionID,
	})

	written, err := os.ReadFile(filepath.Join(config.AppConfig.UploadDir, sessionID+".txt"))
	require.NoError(t, err)
	assert.Equal(t, "final", string(written))
}

func TestChunkIndexOutOfRange(t *testing.T) {
	app, token := setupUploadApp(t)

	result, _ := uploadPost(t, app, token, "/upload/start", map[string]interface{}{
		"file_name":    "clip.mp4",
		"total_chunks": 3,
	})
	sessionID := result["data"].(map[string]interface{})["session_id"].(string)

	_, status := uploadPost(t, app, token, "/upload/chunk", map[string]interface{}{
		"session_id":  sessionID,
		"chunk_index": 3,
		"data":        base64.StdEncoding.EncodeToString([]byte("x")),
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}
