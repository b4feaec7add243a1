package handlers

import (
	"task-market-system/middleware"
	"task-market-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App, taskService *services.TaskService) {
	// All task routes require a user; the group prefix keeps the
	// middleware off unrelated paths.
	tasks := app.Group("/tasks", middleware.RequireUser())

	// Task CRUD
	tasks.Post("/", taskService.CreateTask)
	tasks.Get("/", taskService.GetTasks)
	tasks.Get("/:id", taskService.GetTaskByID)
	tasks.Put("/:id", taskService.UpdateTask)
	tasks.Patch("/:id", taskService.UpdateTask)
	tasks.Delete("/:id", taskService.DeleteTask)

	// Lifecycle
	tasks.Post("/:id/claim", taskService.ClaimTask)
	tasks.Post("/:id/verify", taskService.VerifyTask)
	tasks.Post("/:id/cancel", taskService.CancelTask)
}
