package main

import (
	"log"

	"codeclub/config"
	"codeclub/database"
	authRoutes "codeclub/routers/authRoutes"
	courseRoutes "codeclub/routers/courseRoutes"
	portfolioRoutes "codeclub/routers/portfolioRoutes"
	uploadRoutes "codeclub/routers/uploadRoutes"
	"codeclub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded files and other static assets
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	portfolioRoutes.SetupPortfolioRoutes(app)
	uploadRoutes.SetupUploadRoutes(app)

	utils.InitializeUploadScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
