package courseRoutes

import (
	controllers "codeclub/controllers/course"
	"codeclub/middleware"
	validators "codeclub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:course_id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Chapter content
	userGroup.Get("/chapter/:chapter_id/content", middleware.JWTMiddleware, validators.ChapterID(), controllers.GetChapterElements)

	// Chapter completion (no quiz gate)
	userGroup.Post("/chapter/:chapter_id/complete", middleware.JWTMiddleware, validators.ChapterID(), controllers.MarkChapterComplete)

	// Quiz submission
	userGroup.Post("/quiz/:quiz_id/submit", middleware.JWTMiddleware, validators.QuizID(), validators.SubmitQuiz(), controllers.SubmitQuiz)

	// Progress tracking (read-only)
	userGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetUserCourseProgress)

	// Earned badges
	badgeGroup := app.Group("/badge")
	badgeGroup.Get("/list", middleware.JWTMiddleware, controllers.GetUserBadges)
}
