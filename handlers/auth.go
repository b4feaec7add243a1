package handlers

import (
	"task-market-system/middleware"
	"task-market-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	// Public routes
	app.Post("/auth/signup", authService.Signup)
	app.Post("/auth/login", authService.Login)

	// Secured routes — require a valid bearer token
	app.Get("/me", middleware.RequireUser(), authService.Me)
	app.Patch("/me", middleware.RequireUser(), authService.UpdateProfile)
	app.Post("/me/avatar", middleware.RequireUser(), authService.UploadAvatar)
}
