package uploadRoutes

import (
	uploadControllers "codeclub/controllers/upload"
	"codeclub/middleware"
	uploadValidators "codeclub/validators/upload"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(app *fiber.App) {
	uploadGroup := app.Group("/upload")

	uploadGroup.Post("/start", middleware.JWTMiddleware, uploadValidators.StartUpload(), uploadControllers.StartUpload)
	uploadGroup.Post("/chunk", middleware.JWTMiddleware, uploadValidators.UploadChunk(), uploadControllers.UploadChunk)
	uploadGroup.Post("/finalize", middleware.JWTMiddleware, uploadValidators.FinalizeUpload(), uploadControllers.FinalizeUpload)
}
