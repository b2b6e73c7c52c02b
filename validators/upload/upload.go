package uploadValidator

import (
	"strings"

	"codeclub/middleware"

	"github.com/gofiber/fiber/v2"
)

const maxChunks = 1000

func StartUpload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			FileName    string `json:"file_name"`
			TotalChunks int    `json:"total_chunks"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.FileName) == "" {
			errors["file_name"] = "File name is required!"
		}
		if reqData.TotalChunks < 1 || reqData.TotalChunks > maxChunks {
			errors["total_chunks"] = "Total chunks must be between 1 and 1000!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStartUpload", reqData)
		return c.Next()
	}
}

func UploadChunk() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			SessionID  string `json:"session_id"`
			ChunkIndex int    `json:"chunk_index"`
			Data       string `json:"data"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.SessionID == "" {
			errors["session_id"] = "Session ID is required!"
		}
		if reqData.Data == "" {
			errors["data"] = "Chunk data is required!"
		}
		if reqData.ChunkIndex < 0 {
			errors["chunk_index"] = "Chunk index cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChunk", reqData)
		return c.Next()
	}
}

func FinalizeUpload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			SessionID string `json:"session_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.SessionID == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"session_id": "Session ID is required!",
			})
		}

		c.Locals("validatedFinalize", reqData)
		return c.Next()
	}
}
