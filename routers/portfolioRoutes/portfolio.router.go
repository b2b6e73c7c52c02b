package portfolioRoutes

import (
	portfolioControllers "codeclub/controllers/portfolio"
	"codeclub/middleware"
	portfolioValidators "codeclub/validators/portfolio"

	"github.com/gofiber/fiber/v2"
)

func SetupPortfolioRoutes(app *fiber.App) {
	userGroup := app.Group("/portfolio")

	userGroup.Post("/submit", middleware.JWTMiddleware, portfolioValidators.SubmitPortfolio(), portfolioControllers.SubmitPortfolio)
	userGroup.Get("/list", middleware.JWTMiddleware, portfolioControllers.GetMyPortfolios)

	adminGroup := app.Group("/admin/portfolio")

	adminGroup.Get("/pending", middleware.JWTMiddleware, portfolioControllers.AdminListPendingPortfolios)
	adminGroup.Post("/:portfolio_id/review", middleware.JWTMiddleware, portfolioValidators.PortfolioID(), portfolioValidators.ReviewPortfolio(), portfolioControllers.AdminReviewPortfolio)
}
