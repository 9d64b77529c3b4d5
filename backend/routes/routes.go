package routes

import (
	"log"

	"project/backend/config"
	"project/backend/controllers"
	"project/backend/middleware"
	"project/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger,
	evaluator services.WritingEvaluator, crm services.ContactSync) {

	requireActive := middleware.RequireActive(db, cfg)
	requireTeacher := middleware.RequireTeacher(db, cfg)
	requireAdmin := middleware.RequireAdmin(db, cfg)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg, logger, crm)
	app.Post("/users/", authController.Register)
	app.Post("/token", authController.Login)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/users/me/", requireActive, userController.Me)

	adminUsers := app.Group("/admin/users", requireAdmin)
	adminUsers.Get("/", userController.ListUsers)
	adminUsers.Get("/:id", userController.GetUser)
	adminUsers.Put("/:id", userController.UpdateUser)
	adminUsers.Delete("/:id", userController.DeleteUser)

	// Quiz routes (owner-scoped)
	quizzesController := controllers.NewQuizzesController(db, cfg, logger)
	quizzes := app.Group("/quizzes", requireTeacher)
	quizzes.Post("/", quizzesController.CreateQuiz)
	quizzes.Get("/", quizzesController.ListQuizzes)
	quizzes.Get("/:id", quizzesController.GetQuiz)
	quizzes.Put("/:id", quizzesController.UpdateQuiz)
	quizzes.Delete("/:id", quizzesController.DeleteQuiz)

	// Mock test routes (owner-scoped, except submit)
	mockTestsController := controllers.NewMockTestsController(db, cfg, logger, evaluator)
	app.Post("/mock-tests/:id/submit", requireActive, mockTestsController.SubmitMockTest)

	mockTests := app.Group("/mock-tests", requireTeacher)
	mockTests.Post("/", mockTestsController.CreateMockTest)
	mockTests.Get("/", mockTestsController.ListMockTests)
	mockTests.Get("/:id", mockTestsController.GetMockTest)
	mockTests.Put("/:id", mockTestsController.UpdateMockTest)
	mockTests.Delete("/:id", mockTestsController.DeleteMockTest)

	// Test result routes
	resultsController := controllers.NewResultsController(db, cfg)
	app.Post("/test-results/", requireActive, resultsController.RecordResult)
	app.Get("/test-results/me/", requireActive, resultsController.ListMyResults)
}
