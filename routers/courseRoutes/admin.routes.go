package courseRoutes

import (
	controllers "codeclub/controllers/course"
	"codeclub/middleware"
	validators "codeclub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up the admin authoring routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Courses
	adminGroup.Get("/list", middleware.JWTMiddleware, controllers.AdminListCourses)
	adminGroup.Post("/create", middleware.JWTMiddleware, validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Put("/:course_id", middleware.JWTMiddleware, validators.CourseID(), validators.UpdateCourse(), controllers.AdminUpdateCourse)
	adminGroup.Patch("/:course_id/publish", middleware.JWTMiddleware, validators.CourseID(), validators.PublishCourse(), controllers.AdminPublishCourse)
	adminGroup.Delete("/:course_id", middleware.JWTMiddleware, validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Patch("/:course_id/badge", middleware.JWTMiddleware, validators.CourseID(), validators.AttachBadge(), controllers.AdminAttachBadge)

	// Lessons
	adminGroup.Post("/:course_id/lesson", middleware.JWTMiddleware, validators.CourseID(), validators.CreateLesson(), controllers.AdminCreateLesson)
	adminGroup.Put("/lesson/:lesson_id", middleware.JWTMiddleware, validators.LessonID(), validators.CreateLesson(), controllers.AdminUpdateLesson)
	adminGroup.Delete("/lesson/:lesson_id", middleware.JWTMiddleware, validators.LessonID(), controllers.AdminDeleteLesson)

	// Chapters
	adminGroup.Post("/lesson/:lesson_id/chapter", middleware.JWTMiddleware, validators.LessonID(), validators.CreateChapter(), controllers.AdminCreateChapter)
	adminGroup.Delete("/chapter/:chapter_id", middleware.JWTMiddleware, validators.ChapterID(), controllers.AdminDeleteChapter)

	// Chapter elements
	adminGroup.Post("/chapter/:chapter_id/element", middleware.JWTMiddleware, validators.ChapterID(), validators.CreateElement(), controllers.AdminCreateElement)
	adminGroup.Delete("/element/:element_id", middleware.JWTMiddleware, validators.ElementID(), controllers.AdminDeleteElement)

	// Quizzes
	adminGroup.Post("/quiz/create", middleware.JWTMiddleware, validators.CreateQuiz(), controllers.AdminCreateQuiz)
	adminGroup.Get("/quiz/:quiz_id", middleware.JWTMiddleware, validators.QuizID(), controllers.AdminGetQuiz)
	adminGroup.Put("/quiz/question/:question_id", middleware.JWTMiddleware, validators.QuestionID(), validators.UpdateQuestion(), controllers.AdminUpdateQuizQuestion)
	adminGroup.Post("/chapter/:chapter_id/quiz/generate", middleware.JWTMiddleware, validators.ChapterID(), validators.GenerateQuiz(), controllers.AdminGenerateQuiz)

	// Badges
	adminGroup.Post("/badge/create", middleware.JWTMiddleware, validators.CreateBadge(), controllers.AdminCreateBadge)
	adminGroup.Get("/badge/list", middleware.JWTMiddleware, controllers.AdminListBadges)
}
