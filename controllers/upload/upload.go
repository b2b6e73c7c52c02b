package uploadController

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"time"

	"codeclub/config"
	"codeclub/database"
	"codeclub/middleware"
	"codeclub/models"
	courseModels "codeclub/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// StartUpload opens a chunked upload session. Sessions are stored in the
// database so any server instance can take the next chunk.
func StartUpload(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedStartUpload").(*struct {
		FileName    string `json:"file_name"`
		TotalChunks int    `json:"total_chunks"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	session := courseModels.UploadSession{
		SessionID:   uuid.NewString(),
		UserID:      userID,
		FileName:    reqData.FileName,
		TotalChunks: reqData.TotalChunks,
		Status:      "OPEN",
		ExpiresAt:   time.Now().Add(time.Duration(config.AppConfig.UploadSessionTTL) * time.Hour),
	}

	if err := database.Database.Db.Create(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start upload session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Upload session started!", fiber.Map{
		"session_id":   session.SessionID,
		"expires_at":   session.ExpiresAt,
		"total_chunks": session.TotalChunks,
	})
}

// UploadChunk appends one base64 chunk to an open session
func UploadChunk(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedChunk").(*struct {
		SessionID  string `json:"session_id"`
		ChunkIndex int    `json:"chunk_index"`
		Data       string `json:"data"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var session courseModels.UploadSession
	if err := database.Database.Db.Where("session_id = ? AND user_id = ? AND status = ? AND is_deleted = ?",
		reqData.SessionID, userID, "OPEN", false).First(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Upload session not found or closed!", nil)
	}

	if time.Now().After(session.ExpiresAt) {
		return middleware.JsonResponse(c, fiber.StatusGone, false, "Upload session expired!", nil)
	}

	if reqData.ChunkIndex < 0 || reqData.ChunkIndex >= session.TotalChunks {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Chunk index out of range!", nil)
	}

	// Re-sending the same chunk index overwrites, not duplicates
	var existing courseModels.UploadChunk
	if err := database.Database.Db.Where("session_id = ? AND chunk_index = ? AND is_deleted = ?",
		reqData.SessionID, reqData.ChunkIndex, false).First(&existing).Error; err == nil {
		existing.Data = reqData.Data
		if err := database.Database.Db.Save(&existing).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save chunk!", nil)
		}
	} else {
		chunk := courseModels.UploadChunk{
			SessionID:  reqData.SessionID,
			ChunkIndex: reqData.ChunkIndex,
			Data:       reqData.Data,
		}
		if err := database.Database.Db.Create(&chunk).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save chunk!", nil)
		}
	}

	var received int64
	database.Database.Db.Model(&courseModels.UploadChunk{}).
		Where("session_id = ? AND is_deleted = ?", reqData.SessionID, false).Count(&received)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chunk received!", fiber.Map{
		"received": received,
		"expected": session.TotalChunks,
	})
}

// FinalizeUpload assembles the chunks and writes the file to the upload dir
func FinalizeUpload(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedFinalize").(*struct {
		SessionID string `json:"session_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var session courseModels.UploadSession
	if err := database.Database.Db.Where("session_id = ? AND user_id = ? AND status = ? AND is_deleted = ?",
		reqData.SessionID, userID, "OPEN", false).First(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Upload session not found or closed!", nil)
	}

	var chunks []courseModels.UploadChunk
	if err := database.Database.Db.Where("session_id = ? AND is_deleted = ?", reqData.SessionID, false).
		Order("chunk_index asc").Find(&chunks).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load chunks!", nil)
	}

	if len(chunks) != session.TotalChunks {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Upload incomplete: missing chunks!", fiber.Map{
			"received": len(chunks),
			"expected": session.TotalChunks,
		})
	}

	var assembled []byte
	for _, chunk := range chunks {
		data, err := base64.StdEncoding.DecodeString(chunk.Data)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid base64 chunk data!", nil)
		}
		assembled = append(assembled, data...)
	}

	if err := os.MkdirAll(config.AppConfig.UploadDir, 0o755); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to prepare upload directory!", nil)
	}

	fileName := session.SessionID + filepath.Ext(session.FileName)
	filePath := filepath.Join(config.AppConfig.UploadDir, fileName)
	if err := os.WriteFile(filePath, assembled, 0o644); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to write file!", nil)
	}

	session.Status = "FINALIZED"
	if err := database.Database.Db.Save(&session).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to close session!", nil)
	}

	// Chunks are no longer needed once the file is on disk
	database.Database.Db.Where("session_id = ?", session.SessionID).Delete(&courseModels.UploadChunk{})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Upload finalized!", fiber.Map{
		"url": "/uploads/" + fileName,
	})
}
